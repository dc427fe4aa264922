// Package app holds the run configuration. Everything a run needs is
// carried in an explicit Config value passed down to each component;
// there is no ambient process state.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
)

// Config is the full configuration of a single run.
type Config struct {
	// DBFile is the SQLite database file, dropped and rebuilt per run.
	DBFile string `mapstructure:"db"`
	// OutputDir receives the rendered PNG files.
	OutputDir string `mapstructure:"output"`
	Customers int    `mapstructure:"customers"`
	Orders    int    `mapstructure:"orders"`
	Seed      int64  `mapstructure:"seed"`
}

// Default returns the built-in configuration. The values match the
// historical single-script behavior, so a run with no config file and
// no overrides produces the canonical dataset.
func Default() Config {
	return Config{
		DBFile:    "online_store.db",
		OutputDir: "sql_analysis_images",
		Customers: 200,
		Orders:    1000,
		Seed:      42,
	}
}

// Validate fails fast on parameters the generator cannot honor.
func (c Config) Validate() error {
	if c.Customers < 1 {
		return fmt.Errorf("config: customers must be >= 1, got %d", c.Customers)
	}
	if c.Orders < 1 {
		return fmt.Errorf("config: orders must be >= 1, got %d", c.Orders)
	}
	if strings.TrimSpace(c.DBFile) == "" {
		return fmt.Errorf("config: db file is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("config: output dir is required")
	}
	return nil
}

// Load resolves the run configuration.
//
// Rules:
//  1. Start from Default().
//  2. If application.yml exists (application_test.yml under `go test`),
//     merge it on top. Search order: project root (nearest parent with
//     go.mod) and its ./config, then CWD and its ./config.
//  3. A missing config file is not an error; an unreadable or invalid
//     one is.
func Load() mo.Result[Config] {
	v := viper.New()
	v.SetConfigType("yaml")
	addDefaultConfigPaths(v)

	name := cfgName
	if isTestProcess() {
		name = testCfgName
	}
	v.SetConfigName(name)

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return mo.Ok(cfg)
		}
		return mo.Err[Config](fmt.Errorf("read %s: %w", name, err))
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return mo.Err[Config](fmt.Errorf("unmarshal %s: %w", name, err))
	}
	if err := cfg.Validate(); err != nil {
		return mo.Err[Config](err)
	}
	return mo.Ok(cfg)
}

// addDefaultConfigPaths registers the config search paths.
//
// Viper resolves relative paths against the current working directory,
// which varies a lot between IDE runs, `go test` in package dirs and
// launching the built binary. Registering the project root first keeps
// dev-time discovery stable; the CWD fallback keeps runtime flexible.
func addDefaultConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := findProjectRoot(cwd); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// findProjectRoot walks upward from start until it finds a directory
// containing a go.mod. The existence check is sufficient; the file is
// never parsed.
func findProjectRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects whether we are running under `go test`, so the
// test config variant wins during test runs.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}
	// Fallback: scan stack frames for *_test.go callers.
	const maxFrames = 64
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if strings.HasSuffix(f.File, "_test.go") {
			return true
		}
		if !more {
			break
		}
	}
	return false
}
