package mongolog

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Severity is the closed set of log levels, ordered debug < info < warn
// < error < fatal. Calls below the configured minimum are dropped before
// they reach the record.
type Severity int8

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityFatal
)

var severityNames = [...]string{"debug", "info", "warn", "error", "fatal"}

// String returns the lowercase name used as the messages bucket key.
func (s Severity) String() string {
	if s < SeverityDebug || s > SeverityFatal {
		return fmt.Sprintf("severity(%d)", int8(s))
	}
	return severityNames[s]
}

// ParseSeverity parses a severity name. It accepts exactly the names
// String produces.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return SeverityDebug, fmt.Errorf("%w: %q", ErrInvalidSeverity, name)
}

// zerologLevel maps a severity onto the level used when mirroring to the
// file logger. Fatal maps through WithLevel so the process never exits on
// behalf of the host application.
func (s Severity) zerologLevel() zerolog.Level {
	switch s {
	case SeverityDebug:
		return zerolog.DebugLevel
	case SeverityInfo:
		return zerolog.InfoLevel
	case SeverityWarn:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	case SeverityFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.NoLevel
	}
}
