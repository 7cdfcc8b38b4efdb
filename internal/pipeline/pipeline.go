package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/verdict/internal/cache"
	"github.com/ppiankov/verdict/internal/llm"
	"github.com/ppiankov/verdict/internal/metrics"
	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/reason"
	"github.com/ppiankov/verdict/internal/score"
	"github.com/ppiankov/verdict/internal/worker"
)

// Pipeline orchestrates scoring and reasoning for a dispute
type Pipeline struct {
	scorer   *score.Scorer
	reasoner *reason.Reasoner
	renderer *Renderer
	metrics  *metrics.Metrics
	logger   *slog.Logger
	config   *model.Config
}

// NewPipeline creates a pipeline from configuration. A provider that
// fails to initialize is logged and the pipeline runs rule-based only.
func NewPipeline(cfg *model.Config, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	var generator reason.TextGenerator
	if cfg.LLM.Provider != "" {
		g, err := llm.NewGenerator(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			logger.Warn("failed to initialize LLM provider, using rule-based reasoning",
				"provider", cfg.LLM.Provider, "error", err)
		} else {
			generator = g
		}
	}

	var reasoningCache cache.Cache
	if cfg.Cache.Enabled {
		reasoningCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.DiskDir, cfg.Cache.DiskTTL)
	}

	reasoner := reason.NewReasoner(reason.Options{
		Generator: generator,
		Cache:     reasoningCache,
		Limiter:   worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		Timeout:   time.Duration(cfg.LLM.Timeout) * time.Second,
		Logger:    logger,
		Metrics:   m,
	})

	return NewPipelineWithReasoner(cfg, reasoner, logger, m)
}

// NewPipelineWithReasoner creates a pipeline around an existing reasoner
func NewPipelineWithReasoner(cfg *model.Config, reasoner *reason.Reasoner, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		scorer:   score.NewScorer(),
		reasoner: reasoner,
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		metrics:  m,
		logger:   logger.With(slog.String("component", "pipeline")),
		config:   cfg,
	}
}

// Reasoner exposes the reasoner for health reporting
func (p *Pipeline) Reasoner() *reason.Reasoner {
	return p.reasoner
}

// Score runs the keyword scorer. It accepts any input.
func (p *Pipeline) Score(d model.Dispute) model.Score {
	s := p.scorer.Calculate(d)
	p.metrics.ObserveVerdict(string(s.Winner), string(s.Confidence))
	return s
}

// Reason produces reasoning for an already decided verdict
func (p *Pipeline) Reason(ctx context.Context, d model.Dispute, v model.Verdict) model.Reasoning {
	return p.reasoner.Reason(ctx, d, v)
}

// Judge validates, scores, analyzes and reasons about a dispute
func (p *Pipeline) Judge(ctx context.Context, d model.Dispute) (*model.Judgment, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	d = d.Trimmed()

	// 1. Score (the reasoning below never feeds back into it)
	s := p.Score(d)

	// 2. Reason about the decided verdict
	reasoning := p.Reason(ctx, d, s.Winner)

	judgment := &model.Judgment{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Dispute:   d,
		Score:     s,
		Summary:   score.Summary(s.Winner),
		Analysis:  reason.Analyze(d),
		Reasoning: &reasoning,
	}

	p.logger.InfoContext(ctx, "judged dispute",
		"id", judgment.ID,
		"winner", s.Winner,
		"plaintiff_score", s.PlaintiffScore,
		"defendant_score", s.DefendantScore,
		"reasoning_path", reasoning.Provenance.Path,
		"fallback", reasoning.Provenance.Fallback)

	return judgment, nil
}

// RenderJudgment writes the judgment to the requested files and prints a
// summary to stdout
func (p *Pipeline) RenderJudgment(j *model.Judgment, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(j, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(j, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(os.Stdout, j)

	return nil
}

// OutputPaths returns the JSON and Markdown file names for a judgment
// written into dir
func OutputPaths(dir string, j *model.Judgment) (jsonPath, mdPath string) {
	base := strings.ToLower(string(j.Score.Winner)) + "-" + shortID(j.ID)
	return filepath.Join(dir, base+".json"), filepath.Join(dir, base+".md")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
