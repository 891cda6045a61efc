package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "sharewatch/internal/errors"
)

func newNewsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "news <ticker>",
		Short: "Show recent news for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Lookup == nil {
				output.Error("Lookup unavailable: store or Alpha Vantage credential not configured")
				return fmt.Errorf("lookup service not initialized")
			}
			if app.News == nil {
				output.Warning("Marketaux credential not configured; no news available.")
				return nil
			}

			articles, err := app.Lookup.FetchNews(cmd.Context(), args[0])
			if err != nil {
				if apperrors.Is(err, apperrors.ErrInvalidIdentifier) {
					output.Error("%v", err)
					return err
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(articles)
			}

			if len(articles) == 0 {
				output.Dim("No news found.")
				return nil
			}

			renderNews(output, articles)
			return nil
		},
	}
}
