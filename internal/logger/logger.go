package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

var (
	debugEnabled = false
	debugLogger  = log.New(os.Stderr, "DEBUG: ", log.Ldate|log.Ltime)
	infoLogger   = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	warnLogger   = log.New(os.Stderr, "WARN: ", log.Ldate|log.Ltime)
	errorLogger  = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
)

// Init configures debug logging.
func Init(debug bool) {
	debugEnabled = debug
	if debugEnabled {
		Debug("debug logging enabled")
	}
}

// SetOutput redirects all log output. Useful for tests.
func SetOutput(w io.Writer) {
	debugLogger.SetOutput(w)
	infoLogger.SetOutput(w)
	warnLogger.SetOutput(w)
	errorLogger.SetOutput(w)
}

// Debug logs a debug message if debug mode is enabled.
func Debug(format string, v ...any) {
	if debugEnabled {
		debugLogger.Output(2, fmt.Sprintf(format, v...))
	}
}

// Info logs an informational message.
func Info(format string, v ...any) {
	infoLogger.Output(2, fmt.Sprintf(format, v...))
}

// Warn logs a recoverable failure, e.g. a rerank batch that was discarded.
func Warn(format string, v ...any) {
	warnLogger.Output(2, fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(format string, v ...any) {
	errorLogger.Output(2, fmt.Sprintf(format, v...))
}
