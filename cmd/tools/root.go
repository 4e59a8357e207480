package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/job-extractor/internal/app"
	"github.com/baxromumarov/job-extractor/internal/config"
)

type appKeyType string

const appKey appKeyType = "app"

// newApp and closeApp are swapped in tests.
var (
	newApp   = app.NewApp
	closeApp = (*app.App).Close
)

// newRootCmd builds the command tree. The returned cleanup closes the application opened by
// PersistentPreRunE; cobra skips post-run hooks when RunE fails, so callers run it after
// Execute whatever the outcome.
func newRootCmd() (*cobra.Command, func()) {
	var (
		cfgFile string
		opened  *app.App
	)

	cmd := &cobra.Command{
		Use:           "tools",
		Short:         "Maintenance commands for the job extractor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()})))

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			opened = a
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; JOBEXTRACT_* env vars also apply)")

	cmd.AddCommand(newMigrateCmd(), newScrapeCmd(), newStatsCmd())

	cleanup := func() {
		if opened != nil {
			closeApp(opened)
			opened = nil
		}
	}
	return cmd, cleanup
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok || a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
