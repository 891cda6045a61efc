package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sharewatch/internal/models"
	"sharewatch/internal/store"
)

func newLogsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the audit trail of searches and updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				output.Error("Store not initialized")
				return fmt.Errorf("store not initialized")
			}

			action, _ := cmd.Flags().GetString("action")
			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := app.Store.ListAuditLogs(cmd.Context(), store.AuditFilter{
				Action: models.AuditAction(action),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Dim("No audit log entries.")
				return nil
			}

			output.Bold("Audit Log")
			for _, e := range entries {
				output.Printf("  #%-5d %s  %-8s %-16s %s\n",
					e.ID,
					e.Timestamp.Format("2006-01-02 15:04:05"),
					e.Username,
					e.Action,
					e.Details,
				)
			}
			return nil
		},
	}

	cmd.Flags().String("action", "", `filter by action ("Search Ticker" or "Update Database")`)
	cmd.Flags().Int("limit", 0, "maximum number of entries to show")

	return cmd
}
