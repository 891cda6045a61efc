package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sharewatch/internal/config"
	"sharewatch/internal/logging"
	"sharewatch/internal/lookup"
	"sharewatch/internal/marketdata"
	"sharewatch/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Company marketdata.CompanyDataClient
	News    marketdata.NewsClient
	Lookup  *lookup.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, lookups will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	if cfg.HasAlphaVantageKey() {
		app.Company = marketdata.NewAlphaVantageClient(marketdata.AlphaVantageConfig{
			BaseURL:           cfg.Vendors.AlphaVantageBaseURL,
			APIKey:            cfg.Credentials.AlphaVantage.APIKey,
			Timeout:           time.Duration(cfg.Vendors.TimeoutSeconds) * time.Second,
			RequestsPerMinute: cfg.Vendors.RequestsPerMinute,
		}, logger)
		logger.Debug().Msg("Alpha Vantage client initialized")
	}

	if cfg.HasMarketauxToken() {
		app.News = marketdata.NewMarketauxClient(marketdata.MarketauxConfig{
			BaseURL:           cfg.Vendors.MarketauxBaseURL,
			APIToken:          cfg.Credentials.Marketaux.APIToken,
			Timeout:           time.Duration(cfg.Vendors.TimeoutSeconds) * time.Second,
			RequestsPerMinute: cfg.Vendors.RequestsPerMinute,
		}, logger)
		logger.Debug().Msg("Marketaux client initialized")
	}

	if app.Store != nil && app.Company != nil {
		app.Lookup = lookup.NewService(app.Store, app.Company, app.News, logger)
	}

	rootCmd := &cobra.Command{
		Use:   "sharewatch",
		Short: "Outstanding shares dashboard",
		Long: `sharewatch looks up a stock ticker or ISIN, fetches company overview,
insider-transaction, corporate-action, and news data, caches the result in a
local database, and keeps an audit trail of searches.

Use 'sharewatch help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/sharewatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newLookupCmd(app))
	rootCmd.AddCommand(newLogsCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("sharewatch v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Bold("Database")
			output.Printf("  Path:            %s\n", app.Config.Database.Path)
			output.Println()
			output.Bold("Vendors")
			output.Printf("  Alpha Vantage:   %s\n", app.Config.Vendors.AlphaVantageBaseURL)
			output.Printf("  Marketaux:       %s\n", app.Config.Vendors.MarketauxBaseURL)
			output.Printf("  Timeout:         %ds\n", app.Config.Vendors.TimeoutSeconds)
			output.Printf("  Rate:            %d req/min\n", app.Config.Vendors.RequestsPerMinute)
			output.Println()
			output.Bold("Credentials")
			output.Printf("  Alpha Vantage:   %s\n", credentialStatus(app.Config.HasAlphaVantageKey()))
			output.Printf("  Marketaux:       %s\n", credentialStatus(app.Config.HasMarketauxToken()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func credentialStatus(set bool) string {
	if set {
		return "configured"
	}
	return "not configured"
}
