package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cap-customizer/config"
	"cap-customizer/preset"
	"cap-customizer/storage"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the selected cap whenever the store file changes",
	Long: `watch follows the file backend and prints the selected cap each time
another process (a running server, another capctl) rewrites the store.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if cfg.Store.Backend != config.BackendFile {
		return fmt.Errorf("watch needs the %s backend, have %s", config.BackendFile, cfg.Store.Backend)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watchSelected(ctx, cmd, cfg.Store.Path)
}

func watchSelected(ctx context.Context, cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	last := ""
	show := func() {
		// A fresh File reads what the other process wrote.
		f, err := storage.NewFile(path, storage.WithLogger(logger))
		if err != nil {
			logger.Warn("reading store failed", zap.String("path", path), zap.Error(err))
			return
		}
		defer f.Close()
		line := renderCap(preset.Load(ctx, f, logger).Selected(), true)
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(out, line)
	}

	show()
	return storage.Watch(ctx, path, show)
}
