package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "sharewatch/internal/errors"
	"sharewatch/internal/models"
	"sharewatch/pkg/utils"
)

func newLookupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <ticker-or-isin>",
		Short: "Look up a ticker or ISIN",
		Long: `Look up a ticker or ISIN. Cached results are served from the local
database; otherwise the vendor APIs are queried and the result is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Lookup == nil {
				output.Error("Lookup unavailable: store or Alpha Vantage credential not configured")
				return fmt.Errorf("lookup service not initialized")
			}

			result, err := app.Lookup.Lookup(cmd.Context(), args[0])
			if err != nil {
				if apperrors.Is(err, apperrors.ErrInvalidIdentifier) {
					output.Error("%v", err)
					output.Println("Enter a valid ticker (e.g. AAPL) or ISIN (e.g. US0378331005).")
					return err
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			if !result.Found() {
				output.Error("Failed to fetch outstanding shares data. Please check the input values and try again.")
				if result.Diagnostic != "" {
					output.Dim("API response: %s", utils.Truncate(result.Diagnostic, 500))
				}
				return nil
			}

			if result.FromCache {
				output.Success("Data found in the database.")
			} else {
				output.Success("Data fetched and updated successfully.")
			}

			renderSnapshot(output, result.Snapshot, app)
			if len(result.News) > 0 {
				renderNews(output, result.News)
			}
			return nil
		},
	}
}

func renderSnapshot(output *Output, snap *models.Snapshot, app *App) {
	output.Println()
	output.Bold("%s - %s", snap.Ticker, snap.ISIN)

	shares := "n/a"
	if snap.OutstandingShares != nil {
		shares = utils.FormatShareCount(*snap.OutstandingShares)
	}
	output.Printf("Outstanding Shares: %s\n", shares)
	output.Printf("Last Updated:       %s\n", utils.FormatDate(snap.LastUpdated, app.Config.UI.DateFormat))

	output.Println()
	output.Bold("Details")
	if len(snap.Details) == 0 {
		output.Dim("No details available.")
	}
	for key, value := range snap.Details {
		output.Printf("  %s: %v\n", key, value)
	}

	output.Println()
	output.Bold("Insider Transactions")
	if len(snap.Transactions) == 0 {
		output.Dim("No insider transactions found.")
	}
	for _, txn := range snap.Transactions {
		output.Printf("  %s: %s - %s shares\n", txn.TransactionDate, txn.TransactionType, txn.Shares)
	}

	output.Println()
	output.Bold("Corporate Actions")
	if len(snap.Actions) == 0 {
		output.Dim("No corporate actions found.")
	}
	for _, action := range snap.Actions {
		output.Printf("  %s: %s - %s\n", action.ReportDate, action.Action, action.Description)
	}
}

func renderNews(output *Output, articles []models.NewsArticle) {
	output.Println()
	output.Bold("News")
	for _, article := range articles {
		output.Printf("  %s %s\n", article.PublishedAt, article.Title)
		if article.Description != "" {
			output.Dim("    %s", utils.Truncate(article.Description, 200))
		}
		if article.URL != "" {
			output.Dim("    %s", article.URL)
		}
	}
}
