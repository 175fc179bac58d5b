package refpipe

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/uet-datalab/refpipe/pkg/config"
	"github.com/uet-datalab/refpipe/pkg/corpus"
	"github.com/uet-datalab/refpipe/pkg/crossencoder"
	"github.com/uet-datalab/refpipe/pkg/scorer"
)

var rerankCmd = &cobra.Command{
	Use:   "rerank",
	Short: "Assign references to dialogs with the cross-encoder",
	Long: `Assign supporting document chunks to every dialog in the input file,
scoring with a pairwise relevance model.

A BM25 prefilter restricts each dialog to its lexically closest chunks;
the cross-encoder then scores every (dialog, chunk) pair in that set. More
accurate than the bi-encoder, but each dialog costs a model call per
candidate chunk.`,
	RunE: runRerank,
}

var (
	rerankInput     string
	rerankOutput    string
	rerankRefDir    string
	rerankThreshold float64
	rerankTopK      int
)

func init() {
	rootCmd.AddCommand(rerankCmd)

	rerankCmd.Flags().StringVar(&rerankInput, "input", "", "Dialogs JSON file (required)")
	rerankCmd.Flags().StringVar(&rerankOutput, "output", "", "Output JSON file (required)")
	rerankCmd.Flags().StringVar(&rerankRefDir, "reference_dir", "data/references", "Directory of reference corpus JSON files")
	rerankCmd.Flags().Float64Var(&rerankThreshold, "threshold", 0.5, "Minimum fused score for a reference")
	rerankCmd.Flags().IntVar(&rerankTopK, "top_k", 3, "Maximum references per dialog")
	rerankCmd.MarkFlagRequired("input")
	rerankCmd.MarkFlagRequired("output")

	rerankCmd.Flags().String("model", "", "Reranker model name")
	rerankCmd.Flags().String("base_url", "", "Reranker endpoint base URL")
	rerankCmd.Flags().Int("max_candidates", 0, "BM25 prefilter size (default from config)")
}

func runRerank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Reranker.Model = v
	}
	if v, _ := cmd.Flags().GetString("base_url"); v != "" {
		cfg.Reranker.BaseURL = v
	}
	if v, _ := cmd.Flags().GetInt("max_candidates"); v > 0 {
		cfg.Scoring.MaxCandidates = v
	}

	log, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	ctx := cmd.Context()

	chunks, err := corpus.LoadDir(rerankRefDir, log)
	if err != nil {
		return err
	}

	client, err := crossencoder.NewClient(crossencoder.Config{
		Provider:  crossencoder.Provider(cfg.Reranker.Provider),
		Model:     cfg.Reranker.Model,
		BaseURL:   cfg.Reranker.BaseURL,
		BatchSize: cfg.Reranker.BatchSize,
		RawScores: cfg.Reranker.RawScores,
	})
	if err != nil {
		return fmt.Errorf("failed to create reranker client: %w", err)
	}
	defer client.Close()

	if cfg.CircuitBreaker.Enabled {
		client = crossencoder.NewCircuitBreakerClient(client, crossencoder.BreakerSettings{
			MaxRequests:      cfg.CircuitBreaker.MaxRequests,
			Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
			Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
			ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
		}, "reranker", log)
	}

	ce, err := scorer.NewCrossEncoder(client, chunks, cfg.Scoring.MaxCandidates, log)
	if err != nil {
		return err
	}

	opts := scorer.Options{Threshold: rerankThreshold, TopK: rerankTopK}
	return assignAll(ctx, log, rerankInput, rerankOutput, opts, ce.Assign)
}
