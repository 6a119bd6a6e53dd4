package helpers

import (
	"strings"
	"time"

	"github.com/yigit/tuitiondesk/internal/pkg/logger"
)

// ParseDuration parses a config duration such as "12h". An empty value
// yields fallback silently; an unparsable or negative one yields fallback
// with a warning.
func ParseDuration(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		logger.Warn().Err(err).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	return d
}
