package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Status represents the outcome of a probe.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Config describes a single probe against a greeter instance.
type Config struct {
	Type    string        // "http" | "tcp"
	Host    string        // defaults to 127.0.0.1
	Port    string        // passed through unvalidated
	Path    string        // http only
	Timeout time.Duration // max time per check
}

// Result is the outcome of a single probe.
type Result struct {
	Target   string        `json:"target"`
	Status   Status        `json:"status"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

func (c Config) host() string {
	if c.Host == "" {
		return "127.0.0.1"
	}
	return c.Host
}

// Target returns the URL or address the probe connects to.
func (c Config) Target() string {
	addr := net.JoinHostPort(c.host(), c.Port)
	if c.Type == "http" {
		return "http://" + addr + c.Path
	}
	return addr
}

// Check runs one probe and returns nil if the target answered.
func Check(ctx context.Context, cfg Config) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	switch cfg.Type {
	case "http":
		return checkHTTP(ctx, cfg)
	case "tcp":
		return checkTCP(ctx, cfg)
	default:
		return fmt.Errorf("unknown probe type: %s", cfg.Type)
	}
}

// Run is Check with the outcome recorded as a Result.
func Run(ctx context.Context, cfg Config) Result {
	start := time.Now()
	err := Check(ctx, cfg)
	r := Result{
		Target:   cfg.Target(),
		Duration: time.Since(start),
	}
	if err != nil {
		r.Status = StatusUnhealthy
		r.Message = err.Error()
	} else {
		r.Status = StatusHealthy
		r.Message = "ok"
	}
	return r
}

// Wait repeats Check every interval until it succeeds or ctx is done.
func Wait(ctx context.Context, cfg Config, interval time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	attempts := 0
	for {
		err := Check(ctx, cfg)
		if err == nil {
			return nil
		}
		attempts++
		logger.Debug("probe failed", "target", cfg.Target(), "attempt", attempts, "error", err)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w (last error: %v)", cfg.Target(), ctx.Err(), err)
		}
	}
}

func checkHTTP(ctx context.Context, cfg Config) error {
	req, err := http.NewRequestWithContext(ctx, "GET", cfg.Target(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	return nil
}

func checkTCP(ctx context.Context, cfg Config) error {
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Target())
	if err != nil {
		return fmt.Errorf("tcp connect failed: %w", err)
	}
	conn.Close()
	return nil
}
