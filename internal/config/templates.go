package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# sharewatch Configuration

[database]
# Path to the local SQLite database
# path = "~/.config/sharewatch/shares_data.db"

[vendors]
# Company-data vendor (Alpha Vantage)
alphavantage_base_url = "https://www.alphavantage.co"
# News vendor (Marketaux)
marketaux_base_url = "https://api.marketaux.com"
# HTTP timeout for vendor calls, in seconds
timeout_seconds = 30
# Client-side pacing for vendor calls (free tiers are tightly limited)
requests_per_minute = 5

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

const credentialsTemplate = `# sharewatch Credentials
#
# Keep this file private (chmod 600). Values here can also be supplied via
# the ALPHAVANTAGE_API_KEY and MARKETAUX_API_TOKEN environment variables.

[alphavantage]
api_key = ""

[marketaux]
api_token = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(configTemplate), 0644)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(credentialsTemplate), 0600)
}
