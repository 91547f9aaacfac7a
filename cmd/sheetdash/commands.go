package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/server"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := sheetdash.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if port != "" {
				config.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			source, err := newSource(ctx, config)
			switch {
			case errors.Is(err, sheetdash.ErrNotConfigured):
				log.Printf("WARNING: no service account credentials in %s or $%s; /api/data will report SERVER_NOT_CONFIGURED",
					config.CredentialsFile, config.CredentialsEnv)
			case err != nil:
				return err
			}

			resolver := sheetdash.NewSheetIDResolver(sheetdash.NewOverrideStore(config.OverrideFile), config.EnvFile)
			id, origin := resolver.Lookup()
			log.Printf("source=%s sheet=%q spreadsheet=%s (%s)", config.Source, config.TargetSheet, id, origin)

			return server.New(config, resolver, source).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: $PORT or 8080)")

	return cmd
}

func newHeadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "headers [sheet-id-or-url]",
		Short: "Print the header row and the record key derived from each column",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := sheetdash.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			id, err := target(config, args)
			if err != nil {
				return err
			}

			source, err := newSource(cmd.Context(), config)
			if err != nil {
				return err
			}

			sheet, err := source.Fetch(cmd.Context(), id, 1)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Spreadsheet: %s\n", sheet.SpreadsheetTitle)
			fmt.Fprintf(out, "Sheet: %s\n\n", sheet.Name)

			for _, h := range sheetdash.Headers(sheet.Values) {
				key := h.Key
				if key == "" {
					key = "(skipped)"
				}
				fmt.Fprintf(out, "%s (%d): %q -> %s\n", h.Column, h.Index, h.Title, key)
			}

			return nil
		},
	}
}

func newRecordsCmd() *cobra.Command {
	var (
		where  []string
		limit  int
		offset int
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "records [sheet-id-or-url]",
		Short: "Print the records the dashboard would receive",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := sheetdash.Query{Limit: limit, Offset: offset}
			for _, expr := range where {
				condition, err := sheetdash.ParseCondition(expr)
				if err != nil {
					return err
				}
				query.Conditions = append(query.Conditions, condition)
			}
			if err := sheetdash.ValidateQuery(query); err != nil {
				return err
			}

			config, err := sheetdash.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			id, err := target(config, args)
			if err != nil {
				return err
			}

			source, err := newSource(cmd.Context(), config)
			if err != nil {
				return err
			}

			sheet, err := source.Fetch(cmd.Context(), id, sheetdash.MaxRows)
			if err != nil {
				return err
			}

			records := sheetdash.ApplyQuery(sheetdash.Transform(sheet.Values), query)

			encoder := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(records)
		},
	}

	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, `Filter such as "status==Done" or "progress>=50" (repeatable, ANDed)`)
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of records (0: no limit)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of matching records to skip")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	return cmd
}

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <sheet-id-or-url>",
		Short: "Switch the spreadsheet served by the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := sheetdash.ParseSpreadsheetID(args[0])
			if id == "" {
				return sheetdash.ErrMissingSheetID
			}

			config, err := sheetdash.LoadConfig()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			store := sheetdash.NewOverrideStore(config.OverrideFile)
			if err := store.Save(id, time.Now()); err != nil {
				return fmt.Errorf("failed to save sheet id: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sheet ID set to %s (%s)\n", id, store.Path())
			return nil
		},
	}
}
