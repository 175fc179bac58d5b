package logger_test

import (
	"log/slog"

	"github.com/uet-datalab/refpipe/pkg/logger"
)

func ExampleNewDefaultLogger() {
	// Create a logger with default settings
	log := logger.NewDefaultLogger(slog.LevelDebug)

	// Log different levels
	log.Debug("This is a debug message")
	log.Info("This is an info message")
	log.Info("Results saved to output file") // Will be green in terminal
	log.Warn("This is a warning message")    // Will be yellow in terminal
	log.Error("This is an error message")    // Will be red in terminal
}

func ExampleNewLogger() {
	log := logger.NewDefaultLogger(slog.LevelInfo)

	// Log with attributes
	log.Info("Assigning references", "dialogs", 1200, "chunks", 480)
	log.Info("Checkpoint saved", "processed", 100, "pairs", 312)        // Green
	log.Warn("Rate limit approaching", "current", 95, "limit", 100)     // Yellow
	log.Error("Embedding request failed", "error", "timeout", "try", 3) // Red
}
