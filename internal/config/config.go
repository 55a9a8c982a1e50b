package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvName = "APP_NAME"
	EnvPort = "APP_PORT"
	EnvData = "APP_DATA"

	DefaultName = "go-sample"
	DefaultPort = "8088"

	// DefaultFile and DefaultEnvFile are resolved relative to the working directory.
	DefaultFile    = "greeter.yaml"
	DefaultEnvFile = ".env"
)

// Config is the resolved server configuration. It is built once at startup
// and never modified afterwards.
type Config struct {
	Name    string
	Port    string
	DataDir string
}

// RootPath returns the alias route for the application, e.g. "/demo/".
func (c Config) RootPath() string {
	return "/" + c.Name + "/"
}

// Addr returns the loopback listen address. The port is not validated.
func (c Config) Addr() string {
	return "127.0.0.1:" + c.Port
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Name: DefaultName,
		Port: DefaultPort,
	}
}

// File is the optional YAML overlay. Nil fields were not present in the file.
type File struct {
	Name    *string `yaml:"app_name"`
	Port    *string `yaml:"app_port"`
	DataDir *string `yaml:"app_data"`
}

// LoadFile reads a YAML config file from path. If the file does not exist,
// it returns an empty File and no error. An empty or all-comment file
// also returns an empty File with no error.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		return nil, err
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Apply overlays the values present in f onto c.
func (f *File) Apply(c Config) Config {
	if f == nil {
		return c
	}
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Port != nil {
		c.Port = *f.Port
	}
	if f.DataDir != nil {
		c.DataDir = *f.DataDir
	}
	return c
}

// LoadEnvFile parses a dotenv file without touching the process environment.
// A missing file yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vars, nil
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// WithFallback returns a lookup that consults primary first and then the
// given map. Variables already set in primary are never overridden.
func WithFallback(primary LookupFunc, vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		if v, ok := primary(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}
}

// FromEnv overlays APP_NAME, APP_PORT and APP_DATA onto base. A variable that
// is set wins even when empty; an unset variable keeps the base value.
func FromEnv(base Config, lookup LookupFunc) Config {
	if v, ok := lookup(EnvName); ok {
		base.Name = v
	}
	if v, ok := lookup(EnvPort); ok {
		base.Port = v
	}
	if v, ok := lookup(EnvData); ok {
		base.DataDir = v
	}
	return base
}

// Options controls where Load looks for configuration.
type Options struct {
	File    string     // YAML file, empty to skip
	EnvFile string     // dotenv file, empty to skip
	Lookup  LookupFunc // defaults to os.LookupEnv
}

// Load resolves the configuration: defaults, then the YAML file, then the
// dotenv file, then the process environment.
func Load(opts Options) (Config, error) {
	cfg := Defaults()

	if opts.File != "" {
		f, err := LoadFile(opts.File)
		if err != nil {
			return Config{}, err
		}
		cfg = f.Apply(cfg)
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if opts.EnvFile != "" {
		vars, err := LoadEnvFile(opts.EnvFile)
		if err != nil {
			return Config{}, err
		}
		lookup = WithFallback(lookup, vars)
	}

	return FromEnv(cfg, lookup), nil
}
