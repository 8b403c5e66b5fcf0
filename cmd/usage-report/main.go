// usage-report generates the provider usage spreadsheet for a date range by
// querying a deployed audit log server and rendering the rows, plus computed
// totals, into an .xlsx file.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"auditlog/internal/report"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to generate report:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		baseURL   string
		apiKey    string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "usage-report <from> <to>",
		Short: "Export a provider usage report for a date range (YYYY-MM-DD YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]
			for _, d := range []string{from, to} {
				if _, err := time.Parse("2006-01-02", d); err != nil {
					return fmt.Errorf("dates must be YYYY-MM-DD: %q", d)
				}
			}
			if apiKey == "" {
				apiKey = os.Getenv("OPERATOR_API_KEY")
			}

			exporter := report.NewExporter(report.NewClient(baseURL, apiKey), outputDir)
			path, err := exporter.Export(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "report saved to", path)
			return nil
		},
	}

	_ = godotenv.Load()
	defaultURL := os.Getenv("AUDITLOG_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	cmd.Flags().StringVar(&baseURL, "url", defaultURL, "base URL of the audit log server")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "operator API key (defaults to OPERATOR_API_KEY)")
	cmd.Flags().StringVar(&outputDir, "out", "results", "output directory for the spreadsheet")
	return cmd
}
