package config

import (
	"os"
	"path/filepath"

	"github.com/Veraticus/search-term-analyzer/internal/sheets"
	"github.com/spf13/viper"
)

// TokenFile is where `sta sheets auth` stores the OAuth2 token.
func TokenFile(v *viper.Viper) string {
	if p := v.GetString("sheets.token_file"); p != "" {
		return ExpandPath(p)
	}
	dir, err := DefaultDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sheets_token.json")
}

// LoadSheetsConfig loads Google Sheets configuration. It follows this
// precedence:
// 1. Viper configuration (config file or STA_SHEETS_* env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. The refresh token stored by `sta sheets auth`
// 4. Default values
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if s := v.GetString("sheets.service_account_path"); s != "" {
		config.ServiceAccountPath = ExpandPath(s)
	}
	if s := v.GetString("sheets.client_id"); s != "" {
		config.ClientID = s
	}
	if s := v.GetString("sheets.client_secret"); s != "" {
		config.ClientSecret = s
	}
	if s := v.GetString("sheets.refresh_token"); s != "" {
		config.RefreshToken = s
	}
	if s := v.GetString("sheets.spreadsheet_id"); s != "" {
		config.SpreadsheetID = s
	}
	if s := v.GetString("sheets.spreadsheet_name"); s != "" {
		config.SpreadsheetName = s
	}
	if v.IsSet("sheets.formatting") {
		config.EnableFormatting = v.GetBool("sheets.formatting")
	}

	if config.ServiceAccountPath == "" {
		if s := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"); s != "" {
			config.ServiceAccountPath = ExpandPath(s)
		}
	}
	if config.ClientID == "" {
		config.ClientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if config.ClientSecret == "" {
		config.ClientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}
	if config.RefreshToken == "" {
		config.RefreshToken = os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")
	}
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	}
	if config.SpreadsheetName == sheets.DefaultSpreadsheetName {
		if s := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); s != "" {
			config.SpreadsheetName = s
		}
	}

	if config.RefreshToken == "" && config.ServiceAccountPath == "" {
		if token, err := sheets.LoadToken(TokenFile(v)); err == nil {
			config.RefreshToken = token.RefreshToken
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
