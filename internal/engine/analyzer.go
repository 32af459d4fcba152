package engine

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/logging"
	"github.com/toyz/serdescan/internal/models"
)

// Analyzer runs the engine over every class of a graph
type Analyzer struct {
	engine   *Engine
	workers  int
	failFast bool
	logger   *zap.Logger
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithWorkers bounds how many classes are visited at once
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithFailFast stops starting new visits once a class has failed
func WithFailFast(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.failFast = enabled
	}
}

// WithAnalyzerLogger sets the logger used for run tracing
func WithAnalyzerLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer driving engine
func NewAnalyzer(engine *Engine, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		engine:  engine,
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.For(a.logger, logging.ComponentAnalyzer)
	return a
}

// Summary is the outcome of one analysis run
type Summary struct {
	Results  []Result // visited classes, in graph order
	Skipped  int      // classes not visited because of fail-fast or cancellation
	Duration time.Duration
}

// Eligible returns the results of visited classes that need a descriptor
func (s *Summary) Eligible() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Eligible {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns the total failures over all visited classes
func (s *Summary) Failures() int {
	total := 0
	for _, r := range s.Results {
		total += r.Failures
	}
	return total
}

// Run visits every class in graph. Cancelling ctx stops further visits from
// starting; visits already running complete. The returned error is the
// context error when the run was cut short by cancellation.
func (a *Analyzer) Run(ctx context.Context, graph *models.Graph, reporter Reporter) (*Summary, error) {
	start := time.Now()
	a.applyMixins(graph)

	results := make([]Result, len(graph.Classes))
	visited := make([]bool, len(graph.Classes))
	var failed atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, class := range graph.Classes {
		i, class := i, class
		if gctx.Err() != nil {
			break
		}
		if a.failFast && failed.Load() {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if a.failFast && failed.Load() {
				return nil
			}

			result := a.engine.Visit(class, reporter)
			results[i] = result
			visited[i] = true
			if result.Failures > 0 {
				failed.Store(true)
			}
			return nil
		})
	}

	err := g.Wait()

	summary := &Summary{Duration: time.Since(start)}
	for i := range results {
		if visited[i] {
			summary.Results = append(summary.Results, results[i])
		} else {
			summary.Skipped++
		}
	}

	a.logger.Debug("analysis finished",
		zap.Int("classes", len(graph.Classes)),
		zap.Int("visited", len(summary.Results)),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failures", summary.Failures()),
		zap.Duration("duration", summary.Duration))

	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}

// applyMixins marks mixin targets as already eligible before any visit, so
// that no visit writes to a class other than its own
func (a *Analyzer) applyMixins(graph *models.Graph) {
	query := a.engine.Query()
	for _, class := range graph.Classes {
		target, ok := query.Mixin(class)
		if !ok {
			continue
		}

		resolved, found := graph.Class(target)
		if !found && class.Package != "" {
			resolved, found = graph.Class(class.Package + "." + target)
		}
		if !found {
			a.logger.Warn("mixin target not loaded",
				zap.String("mixin", class.QualifiedName()),
				zap.String("target", target))
			continue
		}

		if !query.HasStereotype(resolved) {
			a.engine.store.Annotate(resolved, annotations.SerdeableKind, nil)
		}
	}
}
