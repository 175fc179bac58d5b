package main

import (
	"log/slog"

	"github.com/uet-datalab/refpipe/pkg/logger"
)

func main() {
	// Create a colored logger
	log := logger.NewDefaultLogger(slog.LevelDebug)

	log.Info("============================================")
	log.Info("    Refpipe Colored Logger Demo")
	log.Info("============================================")
	log.Info("")

	log.Debug("Debug message - standard color")
	log.Info("Info message - standard color")
	log.Info("Corpus loaded - green!")
	log.Info("Checkpoint saved - also green!")
	log.Warn("Warning message - yellow!")
	log.Error("Error message - red!")

	log.Info("")
	log.Info("Progress messages are highlighted in green:")
	log.Info("Checkpoint saved", "processed", 100, "pairs", 312)
	log.Info("References saved", "file", "out.json", "dialogs", 1200)
	log.Info("Rewrite finished", "conversations", 500, "pairs", 1430)

	log.Info("")
	log.Warn("Warnings appear in yellow for attention")
	log.Error("Errors appear in red for immediate visibility")

	log.Info("")
	log.Info("Demo complete!")
}
