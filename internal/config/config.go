// Package config
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerURL        string        `validate:"omitempty,url"`
	ClientID         int           `validate:"gte=0"`
	ScanInterval     time.Duration `validate:"gt=0"`
	CPUSampleDelay   time.Duration `validate:"gt=0"`
	HandshakeTimeout time.Duration `validate:"gt=0"`
	ProcRoot         string        `validate:"required"`
	LogLevel         string        `validate:"oneof=debug info warn error"`
	LogFormat        string        `validate:"oneof=text json"`
	APIToken         string

	// badClientID holds a SYSINFO_CLIENT_ID value that did not parse.
	badClientID string
}

const (
	DefaultScanInterval     = 10 * time.Second
	DefaultCPUSampleDelay   = 100 * time.Millisecond
	DefaultHandshakeTimeout = 5 * time.Second
	DefaultProcRoot         = "/proc"
)

func Load() *Config {
	godotenv.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	procRoot := os.Getenv("SYSINFO_PROC_ROOT")
	if procRoot == "" {
		procRoot = DefaultProcRoot
	}

	clientID, badClientID := 0, ""
	if raw := strings.TrimSpace(os.Getenv("SYSINFO_CLIENT_ID")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badClientID = raw
		} else {
			clientID = parsed
		}
	}

	return &Config{
		ServerURL:        os.Getenv("SYSINFO_SERVER_URL"),
		ClientID:         clientID,
		APIToken:         os.Getenv("SYSINFO_API_TOKEN"),
		ScanInterval:     durationEnv("SYSINFO_SCAN_INTERVAL", DefaultScanInterval),
		CPUSampleDelay:   durationEnv("SYSINFO_CPU_SAMPLE_DELAY", DefaultCPUSampleDelay),
		HandshakeTimeout: durationEnv("SYSINFO_HANDSHAKE_TIMEOUT", DefaultHandshakeTimeout),
		ProcRoot:         procRoot,
		LogLevel:         logLevel,
		LogFormat:        logFormat,
		badClientID:      badClientID,
	}
}

// SetClientID overrides the identifier, discarding any unparsable
// SYSINFO_CLIENT_ID value seen by Load.
func (c *Config) SetClientID(id int) {
	c.ClientID = id
	c.badClientID = ""
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// Validate checks field constraints. Delivery additionally requires ServerURL,
// see RequireServerURL.
func (c *Config) Validate() error {
	var messages []string
	if c.badClientID != "" {
		messages = append(messages, fmt.Sprintf("ClientID must be an integer, got %q", c.badClientID))
	}

	if err := validator.New().Struct(c); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("invalid config: %w", err)
		}
		for _, e := range validationErrors {
			messages = append(messages, messageFor(e))
		}
	}

	if len(messages) == 0 {
		return nil
	}
	sort.Strings(messages)

	return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
}

func (c *Config) RequireServerURL() error {
	if c.ServerURL == "" {
		return fmt.Errorf("invalid config: SYSINFO_SERVER_URL is required to deliver samples")
	}
	return nil
}

func messageFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "url":
		return fmt.Sprintf("%s must be a valid url", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be %s %s", e.Field(), comparison(e.Tag()), e.Param())
	}
	return fmt.Sprintf("%s is invalid", e.Field())
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
