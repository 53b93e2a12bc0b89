package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port        string
	StoreDriver string
	DBConn      string
	LogLevel    string
	JWTSecret   string

	OverdueSweepSpec string
	ReminderSpec     string
	ReminderDays     int
	ReminderUserID   string
	ReminderEmail    string

	SenderEmail  string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

// NewConfig loads configuration from environment variables, reading a
// .env file first when one exists
func NewConfig() (*Config, error) {
	// a missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	reminderDays, err := strconv.Atoi(getEnv("REMINDER_DAYS", "7"))
	if err != nil || reminderDays < 0 {
		return nil, fmt.Errorf("REMINDER_DAYS must be a non-negative integer")
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		StoreDriver:      getEnv("STORE_DRIVER", "postgres"),
		DBConn:           getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=ledger sslmode=disable"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		OverdueSweepSpec: getEnv("OVERDUE_SWEEP_SPEC", "@daily"),
		ReminderSpec:     getEnv("REMINDER_SPEC", "0 8 * * *"),
		ReminderDays:     reminderDays,
		ReminderUserID:   getEnv("REMINDER_USER_ID", ""),
		ReminderEmail:    getEnv("REMINDER_EMAIL", ""),
		SenderEmail:      getEnv("SENDER_EMAIL", "ledger@localhost"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPPort:         getEnv("SMTP_PORT", "25"),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
	}

	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DBConn == "" {
			return nil, fmt.Errorf("DB_CONN is required")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", cfg.StoreDriver)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if (cfg.ReminderUserID == "") != (cfg.ReminderEmail == "") {
		return nil, fmt.Errorf("REMINDER_USER_ID and REMINDER_EMAIL must be set together")
	}

	return cfg, nil
}

// RemindersEnabled reports whether due reminders should be sent
func (c *Config) RemindersEnabled() bool {
	return c.ReminderUserID != "" && c.ReminderEmail != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
