package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `validate:"required,oneof=development production test"`
	DBDSN       string `validate:"required"`
	HTTPAddr    string `validate:"required"`
	AuthBaseURL string `validate:"omitempty,url"`
	AuthAPIKey  string
	Timezone    string `validate:"required"`
	OrgName     string `validate:"required"`
	LogFile     string

	FanoutBatchSize        int     `validate:"min=1"`
	FanoutMaxMessageLength int     `validate:"min=1"`
	FanoutRatePerSecond    float64 `validate:"min=0"`
	RecurrenceHorizonWeeks int     `validate:"min=1"`

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	TwilioBaseURL    string `validate:"omitempty,url"`

	GmailCredentialsFile string
	GmailTokenFile       string
	GmailSender          string `validate:"omitempty,email"`

	TelegramToken string

	// EnvFileLoaded is true when a .env file was found.
	EnvFileLoaded bool
}

var validate = validator.New()

func Load() (*Config, error) {
	// a missing .env is fine, the environment may already be set
	loaded := godotenv.Load(".env") == nil

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.EnvFileLoaded = loaded
	return cfg, nil
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		DBDSN:       os.Getenv("DB_DSN"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		AuthBaseURL: os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:  os.Getenv("AUTH_API_KEY"),
		Timezone:    getEnv("TIMEZONE", "America/New_York"),
		OrgName:     getEnv("ORG_NAME", "Spelman College Glee Club"),
		LogFile:     os.Getenv("LOG_FILE"),

		FanoutBatchSize:        getIntEnv("FANOUT_BATCH_SIZE", 10),
		FanoutMaxMessageLength: getIntEnv("FANOUT_MAX_MESSAGE_LENGTH", 1600),
		FanoutRatePerSecond:    getFloatEnv("FANOUT_RATE_PER_SECOND", 0),
		RecurrenceHorizonWeeks: getIntEnv("RECURRENCE_HORIZON_WEEKS", 26),

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		TwilioBaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),

		GmailCredentialsFile: os.Getenv("GMAIL_CREDENTIALS_FILE"),
		GmailTokenFile:       os.Getenv("GMAIL_TOKEN_FILE"),
		GmailSender:          os.Getenv("GMAIL_SENDER"),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SMSEnabled reports whether Twilio credentials are present.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != ""
}

func (c *Config) EmailEnabled() bool {
	return c.GmailCredentialsFile != "" && c.GmailTokenFile != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
