package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/ingest"
)

func newLoadCmd() *cobra.Command {
	var (
		batchID     string
		format      string
		headersPath string
		itemsPath   string
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load one batch from a header file and an item file",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedFormat, ok := ingest.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unsupported format %q, expected csv or xml", format)
			}

			headers, err := os.ReadFile(headersPath)
			if err != nil {
				return fmt.Errorf("reading headers file: %w", err)
			}
			items, err := os.ReadFile(itemsPath)
			if err != nil {
				return fmt.Errorf("reading items file: %w", err)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			result, err := app.ingest.LoadBatch(cmd.Context(), ingest.LoadBatchInput{
				BatchID: batchID,
				Format:  parsedFormat,
				Headers: headers,
				Items:   items,
			})
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "batch id (AAAAMM)")
	cmd.Flags().StringVar(&format, "format", "csv", "batch format: csv or xml")
	cmd.Flags().StringVar(&headersPath, "headers", "", "path to the header table file")
	cmd.Flags().StringVar(&itemsPath, "items", "", "path to the item table file")
	_ = cmd.MarkFlagRequired("batch")
	_ = cmd.MarkFlagRequired("headers")
	_ = cmd.MarkFlagRequired("items")

	return cmd
}
