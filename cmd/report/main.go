package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"quantreport/cmd"
	"quantreport/internal/app"
	"quantreport/internal/domain"

	"github.com/spf13/cobra"
)

// One-shot report generation from a request file, for local runs and
// batch jobs that don't want the HTTP surface.
func main() {
	var inputPath string
	var outputPath string

	rootCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a portfolio report from a request JSON file",
		RunE: func(c *cobra.Command, args []string) error {
			requestBytes, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("failed to read request file: %w", err)
			}

			var in app.GenerateReportInput
			if err := json.Unmarshal(requestBytes, &in); err != nil {
				return fmt.Errorf("failed to parse request file: %w", err)
			}

			apiHandler, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}

			profile, endProfile := domain.NewProfile()
			ctx := domain.NewCtxWithProfile(context.Background(), profile)
			defer endProfile()

			report, err := apiHandler.ReportApp.GenerateReport(ctx, in)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			if outputPath == "" {
				fmt.Println(string(out))
				return nil
			}
			return os.WriteFile(outputPath, out, 0644)
		},
	}

	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "request.json", "path to the request JSON file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report here instead of stdout")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
