package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the learning-store schema to Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			db, ok := a.DB()
			if !ok {
				return fmt.Errorf("migrate requires learning.backend=postgres")
			}
			if err := db.RunMigrations(cmd.Context(), schema); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations executed successfully")
			return nil
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "path to a schema file (default: embedded schema)")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extract a job posting and print the response as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			resp := a.Service.ScrapeJob(cmd.Context(), args[0])
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Success {
				return fmt.Errorf("scrape failed: %s", resp.Error)
			}
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [domain]",
		Short: "Print learning statistics for a domain, or the whole document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), a.Service.LearningDocument())
			}
			return printJSON(cmd.OutOrStdout(), a.Service.LearningStats(args[0]))
		},
	}
}
