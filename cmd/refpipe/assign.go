package refpipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/uet-datalab/refpipe/pkg/config"
	"github.com/uet-datalab/refpipe/pkg/corpus"
	"github.com/uet-datalab/refpipe/pkg/embedder"
	"github.com/uet-datalab/refpipe/pkg/scorer"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign references to dialogs with the bi-encoder",
	Long: `Assign supporting document chunks to every dialog in the input file.

Each chunk of the reference corpus is embedded once; every dialog is then
scored against the whole corpus by embedding similarity fused with a BM25
lexical signal, and the top chunks above the threshold are attached as the
dialog's references.`,
	RunE: runAssign,
}

var (
	assignInput     string
	assignOutput    string
	assignRefDir    string
	assignThreshold float64
	assignTopK      int
)

func init() {
	rootCmd.AddCommand(assignCmd)

	assignCmd.Flags().StringVar(&assignInput, "input", "", "Dialogs JSON file (required)")
	assignCmd.Flags().StringVar(&assignOutput, "output", "", "Output JSON file (required)")
	assignCmd.Flags().StringVar(&assignRefDir, "reference_dir", "data/references", "Directory of reference corpus JSON files")
	assignCmd.Flags().Float64Var(&assignThreshold, "threshold", 0.5, "Minimum fused score for a reference")
	assignCmd.Flags().IntVar(&assignTopK, "top_k", 3, "Maximum references per dialog")
	assignCmd.MarkFlagRequired("input")
	assignCmd.MarkFlagRequired("output")

	assignCmd.Flags().String("provider", "", "Embedding provider (openai, embedeverything, mock)")
	assignCmd.Flags().String("model", "", "Embedding model name")
	assignCmd.Flags().String("base_url", "", "Embedding endpoint base URL")
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Embedding.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Embedding.Model = v
	}
	if v, _ := cmd.Flags().GetString("base_url"); v != "" {
		cfg.Embedding.BaseURL = v
	}

	log, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	ctx := cmd.Context()

	chunks, err := corpus.LoadDir(assignRefDir, log)
	if err != nil {
		return err
	}

	client, err := embedder.NewClient(embedder.Config{
		Provider:  embedder.Provider(cfg.Embedding.Provider),
		Model:     cfg.Embedding.Model,
		APIKey:    cfg.Embedding.APIKey,
		BaseURL:   cfg.Embedding.BaseURL,
		BatchSize: cfg.Embedding.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	defer client.Close()

	if cfg.CircuitBreaker.Enabled {
		client = embedder.NewCircuitBreakerClient(client, embedder.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "embedding", log)
	}

	be, err := scorer.NewBiEncoder(ctx, client, chunks, log)
	if err != nil {
		return err
	}

	opts := scorer.Options{Threshold: assignThreshold, TopK: assignTopK}
	return assignAll(ctx, log, assignInput, assignOutput, opts, be.Assign)
}

// assignFunc is either strategy's per-dialog entry point.
type assignFunc func(ctx context.Context, dialog scorer.Dialog, opts scorer.Options) (scorer.Dialog, error)

// assignAll runs one assignment strategy over every input dialog and
// writes the annotated dialogs out.
func assignAll(ctx context.Context, log *slog.Logger, input, output string, opts scorer.Options, assign assignFunc) error {
	dialogs, err := scorer.ReadDialogs(input)
	if err != nil {
		return err
	}
	log.Info("dialogs loaded", "count", len(dialogs), "file", input)

	out := make([]scorer.Dialog, 0, len(dialogs))
	for i, dialog := range dialogs {
		annotated, err := assign(ctx, dialog, opts)
		if err != nil {
			return fmt.Errorf("failed to assign references for dialog %d: %w", i, err)
		}
		out = append(out, annotated)

		if (i+1)%100 == 0 {
			log.Info("assigning references", "processed", i+1, "total", len(dialogs))
		}
	}

	if err := scorer.WriteDialogs(output, out); err != nil {
		return err
	}
	log.Info("references saved", "file", output, "dialogs", len(out))
	return nil
}
