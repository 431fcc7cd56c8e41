package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billing/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Billing CLI - invoice totals and PDF documents",
	Long: `Billing CLI calculates invoice totals and composes invoice and quote
documents from JSON templates.

Invoices are read as JSON, their derived amounts are calculated, and the
result can be rendered to PDF, stored locally or in Google Cloud Storage,
and exported to XLSX workbooks or Google Sheets.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Billing CLI executed")

		fmt.Println("Welcome to Billing CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
