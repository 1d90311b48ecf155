// Package config loads and validates environment configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Spreadsheet source
	SheetLink         string
	UsersSheet        string
	CancelOrderSheet  string
	IndirectSaleSheet string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Session persistence
	SessionFilePath string

	// Worker
	SyncInterval   time.Duration
	SnapshotMaxAge time.Duration

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		SheetLink:         getEnv("SHEET_LINK", ""),
		UsersSheet:        getEnv("USERS_SHEET", "Master"),
		CancelOrderSheet:  getEnv("CANCEL_ORDER_SHEET", "CancelOrder(consignee)"),
		IndirectSaleSheet: getEnv("INDIRECT_SALE_SHEET", "Retailer Under Micro (Indirect Sale)"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/micropartner.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "micropartner"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sheet_refresh"),

		SessionFilePath: getEnv("SESSION_FILE_PATH", "./data/session.json"),

		SyncInterval:   getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
		SnapshotMaxAge: getEnvDuration("SNAPSHOT_MAX_AGE", 15*time.Minute),

		DataBackend: getEnv("DATA_BACKEND", "csv"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"csv", "sheets", "sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// The CSV export backend needs the spreadsheet share link to derive the
	// document ID from.
	if c.DataBackend == "csv" && c.SheetLink == "" {
		errors = append(errors, "SHEET_LINK is required when using csv backend")
	}

	if c.UsersSheet == "" || c.CancelOrderSheet == "" || c.IndirectSaleSheet == "" {
		errors = append(errors, "sheet names cannot be empty")
	}

	if c.DataBackend == "sqlite" || c.SQLiteDBPath != "" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if c.SnapshotMaxAge < c.SyncInterval {
		errors = append(errors, fmt.Sprintf("invalid snapshot max age %v: must be at least the sync interval %v", c.SnapshotMaxAge, c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
