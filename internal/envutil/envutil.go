// Package envutil reads typed configuration values from the process
// environment, falling back to a caller-supplied default whenever the
// variable is unset or unparsable.
package envutil

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func String(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func Int(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Duration reads a float number of seconds from the environment and
// converts it to a time.Duration, matching the original system's
// seconds-based configuration surface (dur_forward, request_timeout, ...).
func Duration(name string, defSeconds float64) time.Duration {
	return time.Duration(Float(name, defSeconds) * float64(time.Second))
}
