package adaptors

import "strings"

// LogLevel is the APP_LOG_LEVEL value accepted by the application.
type LogLevel string

const (
	Trace LogLevel = "trace"
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func (l LogLevel) Valid() bool {
	switch LogLevel(strings.ToLower(string(l))) {
	case Trace, Debug, Info, Warn, Error:
		return true
	}
	return false
}
