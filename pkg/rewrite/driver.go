package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// Driver defaults.
const (
	DefaultCheckpointInterval = 100
	DefaultRequestDelay       = 500 * time.Millisecond
)

// userPromptFormat wraps one conversation for the model. The instructions
// live in the system prompt; this only frames the input.
const userPromptFormat = `## ĐOẠN HỘI THOẠI CẦN XỬ LÝ (Dialog ID: %s)

%s

Hãy phân tích và viết lại đoạn hội thoại trên thành các cặp Q&A theo hướng dẫn.`

// Conversation is one raw input row.
type Conversation struct {
	DialogID string
	Text     string
}

// DriverOptions configures a rewrite run.
type DriverOptions struct {
	// SystemPrompt holds the full rewriting instructions.
	SystemPrompt string

	// CheckpointInterval saves partial results every N conversations.
	CheckpointInterval int

	// RequestDelay throttles between conversations to stay under quota.
	RequestDelay time.Duration
}

// SaveFunc persists partial or final results. Called at every checkpoint
// and once at the end of the run.
type SaveFunc func(pairs []QAPair) error

// Driver runs the rewrite loop over a batch of conversations.
type Driver struct {
	gen    Generator
	opts   DriverOptions
	logger *slog.Logger
}

// NewDriver creates a driver. Zero option fields take the defaults.
func NewDriver(gen Generator, opts DriverOptions, logger *slog.Logger) *Driver {
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	// Zero means default; negative disables throttling.
	if opts.RequestDelay == 0 {
		opts.RequestDelay = DefaultRequestDelay
	} else if opts.RequestDelay < 0 {
		opts.RequestDelay = 0
	}
	return &Driver{gen: gen, opts: opts, logger: logger}
}

// Run processes every conversation in order and returns all Q&A pairs
// produced. A conversation that fails generation or parsing is logged and
// skipped. On context cancellation the pairs accumulated so far are
// returned along with the context error, after a final save.
func (d *Driver) Run(ctx context.Context, conversations []Conversation, save SaveFunc) ([]QAPair, error) {
	var results []QAPair

	for i, conv := range conversations {
		if err := ctx.Err(); err != nil {
			d.logger.Warn("run interrupted, saving progress", "processed", i)
			return results, firstErr(save(results), err)
		}

		pairs, err := d.processOne(ctx, conv)
		if err != nil {
			d.logger.Error("skipping conversation",
				"dialog_id", conv.DialogID, "error", err)
		} else {
			results = append(results, pairs...)
		}

		if (i+1)%d.opts.CheckpointInterval == 0 {
			d.logger.Info("checkpoint", "processed", i+1, "pairs", len(results))
			if err := save(results); err != nil {
				return results, fmt.Errorf("checkpoint save failed: %w", err)
			}
		}

		if d.opts.RequestDelay > 0 && i < len(conversations)-1 {
			if err := sleepCtx(ctx, d.opts.RequestDelay); err != nil {
				return results, firstErr(save(results), err)
			}
		}
	}

	d.logger.Info("rewrite finished",
		"conversations", len(conversations), "pairs", len(results))
	return results, save(results)
}

// processOne rewrites a single conversation into zero or more Q&A pairs.
func (d *Driver) processOne(ctx context.Context, conv Conversation) ([]QAPair, error) {
	if strings.TrimSpace(conv.Text) == "" {
		return nil, nil
	}

	userPrompt := fmt.Sprintf(userPromptFormat, conv.DialogID, conv.Text)
	response, err := d.gen.Generate(ctx, d.opts.SystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(response) == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	pairs, err := parsePairs(response)
	if err != nil {
		return nil, err
	}

	for i := range pairs {
		pairs[i].OriginalDialogID = conv.DialogID
		if pairs[i].DialogID == "" || strings.HasPrefix(pairs[i].DialogID, "dialog_id_") {
			pairs[i].DialogID = fmt.Sprintf("%s_%d", conv.DialogID, i+1)
		}
	}
	return pairs, nil
}

// parsePairs decodes the model's JSON array, repairing the almost-JSON
// that models emit (trailing commas, unquoted keys, stray text).
func parsePairs(response string) ([]QAPair, error) {
	repaired, err := jsonrepair.JSONRepair(response)
	if err != nil {
		return nil, fmt.Errorf("unrepairable model response: %w", err)
	}

	var pairs []QAPair
	if err := json.Unmarshal([]byte(repaired), &pairs); err != nil {
		return nil, fmt.Errorf("model response is not a Q&A array: %w", err)
	}
	return pairs, nil
}

// firstErr returns the first non-nil error of the two.
func firstErr(first, second error) error {
	if first != nil {
		return first
	}
	return second
}
