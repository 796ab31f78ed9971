package cache

import "time"

// Config carries the per-scope TTLs. List scopes share one TTL; the analysis
// scope gets a longer one because recomputing it costs an AI call.
type Config struct {
	ListTTL     time.Duration
	AnalysisTTL time.Duration
}

// DefaultConfig returns the stock TTLs: 5 minutes for list scopes, 10 for
// analysis. These bound worst-case staleness when an invalidation is lost.
func DefaultConfig() Config {
	return Config{
		ListTTL:     5 * time.Minute,
		AnalysisTTL: 10 * time.Minute,
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if c.ListTTL <= 0 {
		return &ConfigError{Field: "ListTTL", Message: "must be greater than 0"}
	}
	if c.AnalysisTTL <= 0 {
		return &ConfigError{Field: "AnalysisTTL", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
