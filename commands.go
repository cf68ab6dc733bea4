package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lab-cost-estimator/app"
	"lab-cost-estimator/models"
	"lab-cost-estimator/service"
)

// readSelection parses a selection file. JSON is a subset of YAML so both work.
func readSelection(path string) (models.CalculateRequest, error) {
	var req models.CalculateRequest
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return req, fmt.Errorf("failed to read selection: %w", err)
	}
	if err := yaml.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to parse selection %s: %w", path, err)
	}
	return req, nil
}

func newCalculateCmd() *cobra.Command {
	var selection, format string
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Print the cost report for a selection file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readSelection(selection)
			if err != nil {
				return err
			}
			application, err := app.Initialize(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				report, err := application.Engine.Calculate(cmd.Context(), req)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case service.FormatCSV:
				result, err := application.Reports.Export(cmd.Context(), req, service.FormatCSV)
				if err != nil {
					return err
				}
				_, err = out.Write(result.Data)
				return err
			default:
				return fmt.Errorf("unknown format %q (valid: json, csv)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&selection, "selection", "s", "", "selection file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	_ = cmd.MarkFlagRequired("selection")
	return cmd
}

func newExportCmd() *cobra.Command {
	var selection, format, outDir string
	var upload bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a procurement document for a selection file",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := readSelection(selection)
			if err != nil {
				return err
			}
			application, err := app.Initialize(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			if !service.IsExportFormat(format) {
				return fmt.Errorf("unknown format %q", format)
			}
			result, err := application.Reports.Export(cmd.Context(), req, format)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, result.FileName)
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, result.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "💾 Wrote %s (%d bytes)\n", path, len(result.Data))

			if upload {
				uploaded, err := application.Reports.Upload(cmd.Context(), result)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Uploaded %s: %s\n", uploaded.Name, uploaded.WebViewLink)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&selection, "selection", "s", "", "selection file (YAML or JSON, - for stdin)")
	cmd.Flags().StringVarP(&format, "format", "f", service.FormatPDF, "html, pdf, png, thumb, csv or procurement")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the document to Google Drive")
	_ = cmd.MarkFlagRequired("selection")
	return cmd
}
