package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/benaskins/greeter/internal/probe"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe a running greeter",
	Long:  "GET / and /<APP_NAME>/ on 127.0.0.1:<APP_PORT> using the same configuration resolution as serve. Exits non-zero if either route fails.",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var (
	checkTimeout time.Duration
	checkWait    time.Duration
	checkJSON    bool
)

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Second, "Timeout per request")
	checkCmd.Flags().DurationVar(&checkWait, "wait", 0, "Keep retrying for up to this long before giving up")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	targets := []probe.Config{
		{Type: "http", Port: cfg.Port, Path: "/", Timeout: checkTimeout},
		{Type: "http", Port: cfg.Port, Path: cfg.RootPath(), Timeout: checkTimeout},
	}

	ctx := context.Background()
	if checkWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, checkWait)
		defer cancel()
		if err := probe.Wait(ctx, targets[0], 250*time.Millisecond, slog.Default()); err != nil {
			slog.Warn("greeter did not come up", "error", err)
		}
	}

	var results []probe.Result
	var failed int
	for _, t := range targets {
		r := probe.Run(ctx, t)
		if r.Status != probe.StatusHealthy {
			failed++
		}
		results = append(results, r)
	}

	if checkJSON {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Status == probe.StatusHealthy {
				fmt.Printf("OK    %s (%s)\n", r.Target, r.Duration.Round(time.Millisecond))
			} else {
				fmt.Fprintf(os.Stderr, "FAIL  %s\n      %s\n", r.Target, r.Message)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d route(s) failed", failed, len(results))
	}
	return nil
}
