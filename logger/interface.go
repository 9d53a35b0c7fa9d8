// Package logger defines the structured logging contract used by the SDK.
// Implementations wrap zerolog; a disabled logger can be injected by hosts
// that want the client to stay silent.
package logger

import "time"

// Logger is the contract for structured logging throughout the SDK.
type Logger interface {
	Info() LogEvent
	Error() LogEvent
	Debug() LogEvent
	Warn() LogEvent
	WithFields(fields map[string]any) Logger
}

// LogEvent is a structured log event built up with fields and then sent.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, args ...any)
	Err(err error) LogEvent
	Str(key, value string) LogEvent
	Int(key string, value int) LogEvent
	Uint64(key string, value uint64) LogEvent
	Dur(key string, d time.Duration) LogEvent
	Interface(key string, i any) LogEvent
}
