package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default GoHighLevel identifiers. Overridable by environment so target-side
// schema changes never require touching sync logic.
const (
	defaultAPIBase            = "https://services.leadconnectorhq.com"
	defaultCalendarID         = "sGS7NcXFLYfUP2xSJAkE"
	defaultAssignedUserID     = "q3BWfy3PPYsWnTHF5bvV"
	defaultBookingIDsField    = "hQzLf0VEsF9wPhAkMdTC"
	defaultAppointmentIDField = "Y2mRlKBKWTyXHjMZbkDq"
	defaultApptDateField      = "qW8dTnKbYpLcVuS2xGhJ"
	defaultApptDateTextField  = "mN4rPfXcJtBvKwQ9yLdZ"
	defaultNINField           = "tR6sVbNmKpXcJfW3zQhY"
	defaultSexField           = "pL2wXvBnMkTcJrF8sQdG"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	GHLAPIBase          string
	GHLAPIToken         string
	GHLLocationID       string
	GHLCalendarID       string
	GHLAssignedUserID   string
	BookingIDsFieldID   string
	AppointmentIDsField string
	ApptDateFieldID     string
	ApptDateTextFieldID string
	NINFieldID          string
	SexFieldID          string

	// Numeric Nubimed status codes treated as "visit completed". Empty by
	// default: numeric codes alone never trigger completion rejection unless
	// explicitly enumerated.
	CompletionCodes []int

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", getEnv("NODE_ENV", "development")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GHLAPIBase:          strings.TrimRight(getEnv("GHL_API_BASE", defaultAPIBase), "/"),
		GHLAPIToken:         getEnv("GHL_API_TOKEN", ""),
		GHLLocationID:       getEnv("GHL_LOCATION_ID", ""),
		GHLCalendarID:       getEnv("GHL_CALENDAR_ID", defaultCalendarID),
		GHLAssignedUserID:   getEnv("GHL_ASSIGNED_USER_ID", defaultAssignedUserID),
		BookingIDsFieldID:   getEnv("GHL_BOOKING_IDS_FIELD", defaultBookingIDsField),
		AppointmentIDsField: getEnv("GHL_APPOINTMENT_IDS_FIELD", defaultAppointmentIDField),
		ApptDateFieldID:     getEnv("GHL_APPT_DATE_FIELD", defaultApptDateField),
		ApptDateTextFieldID: getEnv("GHL_APPT_DATE_TEXT_FIELD", defaultApptDateTextField),
		NINFieldID:          getEnv("GHL_NIN_FIELD", defaultNINField),
		SexFieldID:          getEnv("GHL_SEX_FIELD", defaultSexField),

		CompletionCodes: getEnvAsIntList("NUBIMED_COMPLETION_CODES"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

// Production reports whether the service runs with production error reporting,
// which suppresses raw error messages in client responses.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks that required GoHighLevel credentials are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GHLAPIToken) == "" {
		return &MissingVarError{Var: "GHL_API_TOKEN"}
	}
	if strings.TrimSpace(c.GHLLocationID) == "" {
		return &MissingVarError{Var: "GHL_LOCATION_ID"}
	}
	return nil
}

// MissingVarError reports a required environment variable that was not set.
type MissingVarError struct {
	Var string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("config: required environment variable %s is not set", e.Var)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntList parses a comma-separated list of integers, skipping blanks
// and malformed entries.
func getEnvAsIntList(key string) []int {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.Atoi(part); err == nil {
			out = append(out, v)
		}
	}
	return out
}
