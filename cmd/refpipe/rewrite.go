package refpipe

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/uet-datalab/refpipe/pkg/config"
	"github.com/uet-datalab/refpipe/pkg/rewrite"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite raw conversations into labeled Q&A pairs",
	Long: `Rewrite raw advising conversations into clean, labeled Q&A pairs with
an LLM.

The input is an Excel export with "Dialog ID" and "Response of gemini"
columns. Results are written as a flattened Excel sheet plus a raw JSON
file; progress is checkpointed so an interrupted run loses at most one
checkpoint interval of work. Ctrl-C saves before exiting.`,
	RunE: runRewrite,
}

var (
	rewriteInput     string
	rewriteOutput    string
	rewritePrompt    string
	rewriteStart     int
	rewriteLimit     int
	rewriteInterval  int
	rewriteDelay     float64
	rewriteModelFlag string
)

func init() {
	rootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVar(&rewriteInput, "input", "data/Full Message Final.xlsx", "Input Excel file")
	rewriteCmd.Flags().StringVar(&rewriteOutput, "output", "", "Output Excel file (default: data/restructured_<timestamp>.xlsx)")
	rewriteCmd.Flags().StringVar(&rewritePrompt, "prompt", "prompt/rewrite_prompt.md", "System prompt file")
	rewriteCmd.Flags().IntVar(&rewriteStart, "start", 0, "Index of the first conversation to process")
	rewriteCmd.Flags().IntVar(&rewriteLimit, "limit", 0, "Process at most this many conversations (0 = all)")
	rewriteCmd.Flags().IntVar(&rewriteInterval, "checkpoint-interval", 100, "Save partial results every N conversations")
	rewriteCmd.Flags().Float64Var(&rewriteDelay, "delay", 0.5, "Delay between requests in seconds")
	rewriteCmd.Flags().StringVar(&rewriteModelFlag, "model", "", "Model name")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if rewriteModelFlag != "" {
		cfg.LLM.Model = rewriteModelFlag
	}

	log, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	promptData, err := os.ReadFile(rewritePrompt)
	if err != nil {
		return fmt.Errorf("failed to read system prompt: %w", err)
	}

	conversations, err := rewrite.Load(rewriteInput)
	if err != nil {
		return err
	}
	log.Info("conversations loaded", "count", len(conversations), "file", rewriteInput)

	conversations = sliceRange(conversations, rewriteStart, rewriteLimit)

	output := rewriteOutput
	if output == "" {
		output = fmt.Sprintf("data/restructured_%s.xlsx", time.Now().Format("20060102_150405"))
	}

	gen, err := rewrite.NewOpenAIGenerator(rewrite.GeneratorConfig{
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		BaseURL:    cfg.LLM.BaseURL,
		MaxRetries: cfg.LLM.MaxRetries,
		RetryDelay: time.Duration(cfg.LLM.RetryDelay * float64(time.Second)),
	}, log)
	if err != nil {
		return err
	}
	defer gen.Close()

	driver := rewrite.NewDriver(gen, rewrite.DriverOptions{
		SystemPrompt:       string(promptData),
		CheckpointInterval: rewriteInterval,
		RequestDelay:       time.Duration(rewriteDelay * float64(time.Second)),
	}, log)

	// Ctrl-C cancels the run; the driver saves accumulated pairs first.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pairs, err := driver.Run(ctx, conversations, func(pairs []rewrite.QAPair) error {
		return rewrite.SaveResults(output, pairs)
	})
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("interrupted, partial results saved", "file", output, "pairs", len(pairs))
			return nil
		}
		return err
	}

	log.Info("results saved", "file", output, "pairs", len(pairs))
	return nil
}

// sliceRange applies the --start/--limit window.
func sliceRange(conversations []rewrite.Conversation, start, limit int) []rewrite.Conversation {
	if start < 0 {
		start = 0
	}
	if start >= len(conversations) {
		return nil
	}
	conversations = conversations[start:]
	if limit > 0 && limit < len(conversations) {
		conversations = conversations[:limit]
	}
	return conversations
}
