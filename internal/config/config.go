package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Ledger backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Sheets    SheetsConfig
	SQLite    SQLiteConfig
	Dashboard DashboardConfig
	Reporting ReportingConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string
}

// LedgerConfig selects where the three ledgers live.
type LedgerConfig struct {
	Backend string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	CredentialsJSON string
	SpreadsheetID   string
}

// SQLiteConfig locates the local ledger database.
type SQLiteConfig struct {
	Path string
}

// DashboardConfig holds the default market-watch prices.
type DashboardConfig struct {
	MarketPrice decimal.Decimal
	OurPrice    decimal.Decimal
}

// ReportingConfig holds scheduler-related settings. An empty schedule disables the job.
type ReportingConfig struct {
	SnapshotSchedule string
	DigestSchedule   string
	Timezone         string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether the digest can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.RecipientID != ""
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables snapshots.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	marketPrice, err := getenvDecimal("MARKET_PRICE", "4.50")
	if err != nil {
		return nil, err
	}
	ourPrice, err := getenvDecimal("OUR_PRICE", "5.00")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Ledger: LedgerConfig{
			Backend: strings.ToLower(getenvWithDefault("LEDGER_BACKEND", BackendSheets)),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			CredentialsJSON: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		SQLite: SQLiteConfig{
			Path: getenvWithDefault("SQLITE_DB_PATH", "./data/coopcontrol.db"),
		},
		Dashboard: DashboardConfig{
			MarketPrice: marketPrice,
			OurPrice:    ourPrice,
		},
		Reporting: ReportingConfig{
			SnapshotSchedule: os.Getenv("SNAPSHOT_CRON_SCHEDULE"),
			DigestSchedule:   os.Getenv("DIGEST_CRON_SCHEDULE"),
			Timezone:         getenvWithDefault("TIMEZONE", "UTC"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_DIGEST_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "coopcontrol"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Ledger.Backend {
	case BackendSheets:
		if c.Sheets.CredentialsPath == "" && c.Sheets.CredentialsJSON == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH or GOOGLE_SHEETS_CREDENTIALS_JSON must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return errors.New("SQLITE_DB_PATH must be provided")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("LEDGER_BACKEND %q must be one of %s, %s, %s", c.Ledger.Backend, BackendSheets, BackendSQLite, BackendMemory)
	}

	if c.Dashboard.MarketPrice.IsNegative() || c.Dashboard.OurPrice.IsNegative() {
		return errors.New("MARKET_PRICE and OUR_PRICE must not be negative")
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	if c.Reporting.SnapshotSchedule != "" && c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided when SNAPSHOT_CRON_SCHEDULE is set")
	}

	if c.Reporting.DigestSchedule != "" && !c.WhatsApp.Enabled() {
		return errors.New("WHATSAPP_TOKEN, WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_DIGEST_RECIPIENT must be provided when DIGEST_CRON_SCHEDULE is set")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDecimal(key, fallback string) (decimal.Decimal, error) {
	raw := getenvWithDefault(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q is not a decimal: %w", key, raw, err)
	}
	return d, nil
}
