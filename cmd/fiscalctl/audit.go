package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ecosmart2025/fiscal-audit-backend/internal/audit"
)

func newAuditCmd() *cobra.Command {
	var batchID string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the consistency checks and print the findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.close()

			report, err := app.audit.Report(cmd.Context(), audit.Scope{BatchID: batchID})
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "restrict the audit to one batch (AAAAMM)")
	return cmd
}
