// SPDX-License-Identifier: MIT

package validate

import "strings"

// LogLevel is a log level accepted on the command line.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ErrInvalidLogLevel is returned by ParseLogLevel for unknown levels.
var ErrInvalidLogLevel = &Error{
	Field:   "log-level",
	Message: "invalid log level (must be: debug, info, warn, error)",
}

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	}
	return false
}

func (l LogLevel) String() string { return string(l) }

// ParseLogLevel accepts a level in any case, surrounding blanks ignored.
func ParseLogLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidLogLevel
	}
	return level, nil
}
