// Package logging provides the debug loggers used across entomologist.
//
// Warnings always go to stderr. When ENT_DEBUG_LOG names a file, output
// is additionally copied to that file with size-based rotation, so a
// long-lived shell session can't grow an unbounded log.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvDebugLog names the environment variable that enables the rotating
// debug log file.
const EnvDebugLog = "ENT_DEBUG_LOG"

var debugSink io.Writer

func init() {
	if path := os.Getenv(EnvDebugLog); path != "" {
		debugSink = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}
}

// New returns a logger writing to stderr (and the debug log file, if
// configured) with the given bracketed prefix.
func New(prefix string) *log.Logger {
	w := io.Writer(os.Stderr)
	if debugSink != nil {
		w = io.MultiWriter(os.Stderr, debugSink)
	}
	return log.New(w, "["+prefix+"] ", log.LstdFlags)
}

// Debug returns a logger that is silent unless the debug log file is
// configured. Used for chatter like "ignoring unknown file" that a
// normal invocation shouldn't print.
func Debug(prefix string) *log.Logger {
	if debugSink == nil {
		return log.New(io.Discard, "", 0)
	}
	return log.New(debugSink, "["+prefix+"] ", log.LstdFlags)
}
