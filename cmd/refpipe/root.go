package refpipe

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uet-datalab/refpipe/pkg/config"
	"github.com/uet-datalab/refpipe/pkg/logger"
	"github.com/uet-datalab/refpipe/pkg/telemetry"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "refpipe",
		Short: "Refpipe: Q&A dataset curation pipeline",
		Long: `Refpipe builds a fine-tuning corpus for an educational Q&A assistant.

It rewrites raw advising conversations into labeled Q&A pairs, parses
source documents into reference corpora, and assigns each dialog the
document chunks that support its answer.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.refpipe.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".refpipe")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the pipeline logger: colored console output, plus the
// Parquet error sink when telemetry is configured. The returned closer
// flushes buffered telemetry and must run before exit.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Log.Level)
	console := logger.NewColorHandler(os.Stderr, level)

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(console), func() {}, nil
	}

	ph, err := telemetry.NewParquetHandler(console, cfg.Telemetry.ParquetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}
	return slog.New(ph), func() { _ = ph.Close() }, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
