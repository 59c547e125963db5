package search

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/client"
)

// DefaultDebounce is the quiet period before a submitted query runs.
const DefaultDebounce = 300 * time.Millisecond

// TermSource supplies the catalog to search.
type TermSource interface {
	Terms() []client.Term
}

// MetaSource supplies the metadata snapshot used for ranking.
type MetaSource interface {
	AllMeta(ctx context.Context) ([]client.MetaSummary, error)
}

// Engine runs searches against a catalog with live metadata.
type Engine struct {
	terms    TermSource
	meta     MetaSource
	minLen   int
	debounce *Debouncer
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinQueryLength overrides the shortest query that triggers a search.
func WithMinQueryLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minLen = n
		}
	}
}

// WithDebounce overrides the quiet period used by Submit.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) { e.debounce = NewDebouncer(d) }
}

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an engine over terms and meta.
func NewEngine(terms TermSource, meta MetaSource, opts ...Option) *Engine {
	e := &Engine{
		terms:    terms,
		meta:     meta,
		minLen:   DefaultMinQueryLength,
		debounce: NewDebouncer(DefaultDebounce),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search runs one ranking pass. Short queries return StatusIdle without
// fetching metadata. A failed fetch yields a degraded, catalog-ordered outcome.
func (e *Engine) Search(ctx context.Context, raw string) Outcome {
	q := Normalize(raw)
	if TooShort(q, e.minLen) {
		return Outcome{Query: q, Status: StatusIdle, Results: []Result{}}
	}

	snapshot, err := e.meta.AllMeta(ctx)
	if err != nil {
		e.log.Warn().Err(err).Str("query", q).Msg("metadata fetch failed, showing unranked results")
		snapshot = nil
		degradedTotal.Inc()
	} else if snapshot == nil {
		snapshot = []client.MetaSummary{}
	}

	out := Rank(q, e.terms.Terms(), snapshot, e.minLen)
	passesTotal.WithLabelValues(out.Status.String()).Inc()
	e.log.Debug().Str("query", q).Int("results", len(out.Results)).Bool("degraded", out.Degraded).Msg("search ranked")
	return out
}

// Submit debounces query. Calls arriving within the quiet period replace the
// pending one, so only the last runs, and deliver receives its outcome on the
// timer goroutine. A short query cancels whatever is pending and delivers
// StatusIdle synchronously.
func (e *Engine) Submit(ctx context.Context, raw string, deliver func(Outcome)) {
	q := Normalize(raw)
	if TooShort(q, e.minLen) {
		if e.debounce.Cancel() {
			coalescedTotal.Inc()
		}
		deliver(Outcome{Query: q, Status: StatusIdle, Results: []Result{}})
		return
	}
	replaced := e.debounce.Debounce(func() {
		if ctx.Err() != nil {
			return
		}
		deliver(e.Search(ctx, q))
	})
	if replaced {
		coalescedTotal.Inc()
	}
}

// Cancel drops any pending submitted query.
func (e *Engine) Cancel() {
	e.debounce.Cancel()
}
