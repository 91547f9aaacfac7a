// Package main provides the CLI entry point for sheetdash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	logger "log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	sheetdash "github.com/ideamans/go-sheetdash"
	"github.com/ideamans/go-sheetdash/adapters/excel"
	"github.com/ideamans/go-sheetdash/adapters/googlesheets"
)

var log = logger.New(logger.Writer(), "[SHEETDASH] ", logger.LstdFlags|logger.Lmsgprefix)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetdash",
		Short: "Serve a Google Sheets spreadsheet as JSON for a dashboard",
		Long: `sheetdash reads one worksheet of a Google Sheets spreadsheet, turns each row
into a record keyed by normalized header names, and serves it with the dashboard.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadEnv,
	}

	defaultEnvFile := os.Getenv("ENV_FILE")
	if defaultEnvFile == "" {
		defaultEnvFile = ".env"
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "Env file loaded at startup and consulted for SHEET_ID")

	rootCmd.AddCommand(
		newServeCmd(),
		newHeadersCmd(),
		newRecordsCmd(),
		newUseCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEnv loads the env file into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnv(cmd *cobra.Command, args []string) error {
	if err := os.Setenv("ENV_FILE", envFile); err != nil {
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("no env file at %s, using the process environment", envFile)
			return nil
		}
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// newSource builds the spreadsheet source selected by the configuration.
// It returns sheetdash.ErrNotConfigured when the Google source has no credentials.
func newSource(ctx context.Context, config *sheetdash.Config) (sheetdash.Source, error) {
	if config.Source == sheetdash.SourceXLSX {
		source, err := excel.New(&excel.Config{
			Dir:         config.XLSXDir,
			TargetSheet: config.TargetSheet,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create workbook source: %w", err)
		}
		return source, nil
	}

	key := googlesheets.ResolveCredentials(googlesheets.CredentialSources{
		File:   config.CredentialsFile,
		EnvVar: config.CredentialsEnv,
	})
	if key == nil {
		return nil, sheetdash.ErrNotConfigured
	}

	source, err := googlesheets.NewWithServiceAccountKey(ctx, googlesheets.Config{TargetSheet: config.TargetSheet}, key)
	if err != nil {
		return nil, err
	}
	return source, nil
}

// target resolves the spreadsheet named on the command line, or the configured one
func target(config *sheetdash.Config, args []string) (string, error) {
	if len(args) > 0 {
		id := sheetdash.ParseSpreadsheetID(args[0])
		if id == "" {
			return "", sheetdash.ErrMissingSheetID
		}
		return id, nil
	}

	resolver := sheetdash.NewSheetIDResolver(sheetdash.NewOverrideStore(config.OverrideFile), config.EnvFile)
	return resolver.Resolve(), nil
}
