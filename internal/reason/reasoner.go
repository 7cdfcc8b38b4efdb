package reason

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/verdict/internal/cache"
	"github.com/ppiankov/verdict/internal/llm"
	"github.com/ppiankov/verdict/internal/metrics"
	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/worker"
)

// RuleBasedLabel is the provenance label of deterministic reasoning
const RuleBasedLabel = "Rule-Based Reasoning"

var errRateLimited = errors.New("rate limited")

// TextGenerator produces reasoning text through an external model
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, d model.Dispute, v model.Verdict) (string, error)
}

// enabler is implemented by generators that may be configured off
type enabler interface {
	IsEnabled() bool
}

// availabilityChecker is implemented by generators that can check their
// upstream
type availabilityChecker interface {
	IsAvailable(ctx context.Context) bool
}

// Options configures a Reasoner. Every field is optional.
type Options struct {
	Generator TextGenerator
	Cache     cache.Cache
	CacheTTL  time.Duration
	Limiter   *worker.Limiter
	Timeout   time.Duration
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Reasoner produces the reasoning text for a verdict. When a generator is
// configured it is tried once; any failure falls back to Explain.
type Reasoner struct {
	generator TextGenerator
	cache     cache.Cache
	cacheTTL  time.Duration
	limiter   *worker.Limiter
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewReasoner creates a reasoner from options
func NewReasoner(opts Options) *Reasoner {
	gen := opts.Generator
	if e, ok := gen.(enabler); ok && !e.IsEnabled() {
		gen = nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reasoner{
		generator: gen,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		limiter:   opts.Limiter,
		timeout:   opts.Timeout,
		logger:    logger.With(slog.String("component", "reasoner")),
		metrics:   opts.Metrics,
	}
}

// HasGenerator reports whether the generative path is configured
func (r *Reasoner) HasGenerator() bool {
	return r.generator != nil
}

// GeneratorName returns the generator label, or "" without one
func (r *Reasoner) GeneratorName() string {
	if r.generator == nil {
		return ""
	}
	return r.generator.Name()
}

// GeneratorAvailable reports whether the generator can serve requests.
// Generators without an availability check count as available.
func (r *Reasoner) GeneratorAvailable(ctx context.Context) bool {
	if r.generator == nil {
		return false
	}
	if c, ok := r.generator.(availabilityChecker); ok {
		return c.IsAvailable(ctx)
	}
	return true
}

// RuleBased returns the deterministic reasoning without consulting the
// generator
func (r *Reasoner) RuleBased(d model.Dispute, v model.Verdict) model.Reasoning {
	r.metrics.ObserveReasoning(string(model.PathRuleBased))
	return ruleBased(d, v, nil)
}

// Reason returns reasoning for the verdict. It never fails: generator
// errors, timeouts and unusable output are logged and reported as
// warnings on a rule-based result.
func (r *Reasoner) Reason(ctx context.Context, d model.Dispute, v model.Verdict) model.Reasoning {
	if r.generator == nil {
		return r.RuleBased(d, v)
	}

	name := r.generator.Name()
	key := cache.CacheKey(name, string(v), d.Plaintiff, d.Defendant, d.Evidence)

	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			r.metrics.ObserveCacheHit()
			r.metrics.ObserveReasoning(string(model.PathGenerative))
			return model.Reasoning{
				Text: string(cached),
				Provenance: model.Provenance{
					Path:   model.PathGenerative,
					Model:  name,
					Cached: true,
				},
			}
		}
	}

	text, err := r.generate(ctx, name, d, v)
	if err != nil {
		cause := failureCause(err)
		r.logger.WarnContext(ctx, "generative reasoning failed, using rule-based",
			"generator", name, "cause", cause, "error", err)
		r.metrics.ObserveFallback(cause)
		r.metrics.ObserveReasoning(string(model.PathRuleBased))
		return ruleBased(d, v, []string{fmt.Sprintf("%s unavailable (%s): %v", name, cause, err)})
	}

	if r.cache != nil {
		if err := r.cache.Set(key, []byte(text), r.cacheTTL); err != nil {
			r.logger.WarnContext(ctx, "failed to cache reasoning", "error", err)
		}
	}

	r.metrics.ObserveReasoning(string(model.PathGenerative))
	return model.Reasoning{
		Text: text,
		Provenance: model.Provenance{
			Path:  model.PathGenerative,
			Model: name,
		},
	}
}

// generate makes the single generator attempt under the reasoner timeout.
// The rate-limit wait counts against the same deadline.
func (r *Reasoner) generate(ctx context.Context, name string, d model.Dispute, v model.Verdict) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.limiter.Wait(ctx, name); err != nil {
		return "", fmt.Errorf("%w: %v", errRateLimited, err)
	}

	start := time.Now()
	text, err := r.generator.Generate(ctx, d, v)
	r.metrics.ObserveGeneration(name, time.Since(start))
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		// Late answers past the deadline are discarded
		return "", ctx.Err()
	}
	return text, nil
}

func ruleBased(d model.Dispute, v model.Verdict, warnings []string) model.Reasoning {
	return model.Reasoning{
		Text: Explain(d, v),
		Provenance: model.Provenance{
			Path:     model.PathRuleBased,
			Model:    RuleBasedLabel,
			Fallback: len(warnings) > 0,
			Warnings: warnings,
		},
	}
}

func failureCause(err error) string {
	switch {
	case errors.Is(err, errRateLimited):
		return "rate_limit"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, llm.ErrDegenerateOutput):
		return "degenerate_output"
	case errors.Is(err, llm.ErrNoResponse):
		return "no_response"
	default:
		return "error"
	}
}
