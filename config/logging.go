package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "editorial-api.log")
}

// InitLogging configures the standard logger to write to stdout and a
// size-rotated log file.
func InitLogging() io.Writer {
	logPath := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	rotated := &lumberjack.Logger{
		Filename:   LogFilePath(),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	LogWriter = io.MultiWriter(os.Stdout, rotated)
	log.SetOutput(LogWriter)
	return LogWriter
}
