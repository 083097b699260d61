package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"text": true,
	"json": true,
}

// Validate checks the config for invalid values. Unknown log levels/formats
// are not fatal; the logging package falls back to sane defaults for them.
// Negative concurrency limits are clamped in place rather than rejected.
func (c *Config) Validate() []error {
	var errs []error

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log_level %q is not recognized, falling back to info", c.LogLevel))
	}

	if c.LogFormat != "" && !validLogFormats[strings.ToLower(c.LogFormat)] {
		errs = append(errs, fmt.Errorf("log_format %q is not recognized, falling back to text", c.LogFormat))
	}

	if c.MaxConcurrentSessions < 0 {
		errs = append(errs, fmt.Errorf("max_concurrent_sessions %d is negative, clamping to 0 (unlimited)", c.MaxConcurrentSessions))
		c.MaxConcurrentSessions = 0
	}

	return errs
}
