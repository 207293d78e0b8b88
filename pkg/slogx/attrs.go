package slogx

import (
	"fmt"
	"log/slog"
)

// Error returns a slog.Attr with the key "error" and the error's message as value.
// A nil error is logged as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Model returns the attribute for a model identifier.
func Model(name string) slog.Attr {
	return slog.String("model", name)
}

// Status returns the attribute for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}

// Stringer creates a slog.Attr holding the String() form of value.
func Stringer(key string, value fmt.Stringer) slog.Attr {
	return slog.String(key, value.String())
}

// Truncated logs at most max bytes of value, marking the cut with "...".
func Truncated(key, value string, max int) slog.Attr {
	if len(value) <= max {
		return slog.String(key, value)
	}
	return slog.String(key, value[:max]+"...")
}

const (
	// KeyLoggerName is the key under which component loggers record their name.
	KeyLoggerName = "logger"
)

// LoggerName returns an attribute for the logger name.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}
