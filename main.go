package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cap-customizer/config"
	"cap-customizer/preset"
	"cap-customizer/storage"
	"cap-customizer/storage/sqlite"
)

var (
	// Global flags
	configPath  string
	backendFlag string
	pathFlag    string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capctl",
	Short: "Cap customizer state server and CLI",
	Long: `capctl owns the persisted cap presets of the baseball-cap customizer.

Run "capctl serve" to expose the presets over HTTP and push changes to
connected viewers, or use the other commands to inspect and edit the store
directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}
		logger, err = newLogger(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file (default $CAPS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "store backend: file, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&pathFlag, "path", "", "store file or database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads file and environment settings, applies the global flags
// on top and validates the result.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if backendFlag != "" {
		c.Store.Backend = backendFlag
	}
	if pathFlag != "" {
		c.Store.Path = pathFlag
	}
	if verbose {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// openBackend opens the configured key/value backend.
func openBackend(ctx context.Context, sc config.StoreConfig) (storage.Backend, error) {
	switch sc.Backend {
	case config.BackendMemory:
		return storage.NewMemory(), nil
	case config.BackendSQLite:
		return sqlite.Open(ctx, sc.Path)
	case config.BackendFile:
		return storage.NewFile(sc.Path, storage.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

// openManager opens the backend and loads the cap state from it. The caller
// closes the returned backend.
func openManager(ctx context.Context, opts ...preset.Option) (*preset.Manager, storage.Backend, error) {
	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	opts = append([]preset.Option{preset.WithLogger(logger)}, opts...)
	return preset.NewManager(ctx, backend, opts...), backend, nil
}
