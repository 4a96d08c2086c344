// Copyright 2025 Certen Protocol
//
// Package logging is a thin leveled wrapper around the standard library's
// log package, following the same log.New(..., prefix, log.LstdFlags)
// idiom the rest of the codebase uses for its component loggers.

package logging

import (
	"log"
	"os"
)

// Logger writes leveled, prefixed lines to an underlying *log.Logger.
type Logger struct {
	component string
	std       *log.Logger
}

// New builds a Logger for component, writing to os.Stdout with standard
// timestamp flags.
func New(component string) *Logger {
	return &Logger{
		component: component,
		std:       log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds),
	}
}

func (l *Logger) log(level, format string, args ...any) {
	l.std.Printf("[%s] [%s] "+format, append([]any{level, l.component}, args...)...)
}

// Info logs at informational level.
func (l *Logger) Info(format string, args ...any) { l.log("INFO", format, args...) }

// Warn logs at warning level.
func (l *Logger) Warn(format string, args ...any) { l.log("WARN", format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.log("ERROR", format, args...) }

// Fatal logs at fatal level then terminates the process, matching
// log.Fatalf's semantics.
func (l *Logger) Fatal(format string, args ...any) {
	l.log("FATAL", format, args...)
	os.Exit(1)
}
