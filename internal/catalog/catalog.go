// Package catalog holds the term index and subject list, loaded once per
// session and read-only afterwards. Every accessor returns a copy.
package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/client"
)

// Source is the part of the catalog service the cache loads from.
type Source interface {
	ListTerms(ctx context.Context) ([]client.Term, error)
	ListSubjects(ctx context.Context) ([]client.Subject, error)
}

// DefaultSuggestLimit is the number of homework term suggestions.
const DefaultSuggestLimit = 5

// MinSuggestQuery is the shortest query Suggest answers.
const MinSuggestQuery = 2

// Catalog is the immutable term index.
type Catalog struct {
	terms    []client.Term
	subjects []client.Subject
	byName   map[string]int
	loadedAt time.Time
}

type loadOptions struct {
	attempts int
	newBack  func() backoff.BackOff
	log      zerolog.Logger
}

// Option tunes Load.
type Option func(*loadOptions)

// WithAttempts bounds the number of fetch attempts per endpoint (minimum 1).
func WithAttempts(n int) Option {
	return func(o *loadOptions) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithBackOff replaces the exponential retry schedule.
func WithBackOff(newBack func() backoff.BackOff) Option {
	return func(o *loadOptions) { o.newBack = newBack }
}

// WithLogger sets the logger used to report retries.
func WithLogger(l zerolog.Logger) Option {
	return func(o *loadOptions) { o.log = l }
}

// Load fetches terms and subjects. Recoverable failures (network, 5xx, 408,
// 429) are retried with exponential backoff; irrecoverable ones stop at once.
func Load(ctx context.Context, src Source, opts ...Option) (*Catalog, error) {
	o := loadOptions{
		attempts: 3,
		newBack: func() backoff.BackOff {
			exp := backoff.NewExponentialBackOff()
			exp.InitialInterval = 200 * time.Millisecond
			exp.Multiplier = 2
			exp.MaxInterval = 2 * time.Second
			return exp
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	terms, err := fetch(ctx, o, "terms", src.ListTerms)
	if err != nil {
		return nil, err
	}
	subjects, err := fetch(ctx, o, "subjects", src.ListSubjects)
	if err != nil {
		return nil, err
	}
	c := New(terms, subjects)
	o.log.Debug().Int("terms", len(c.terms)).Int("subjects", len(c.subjects)).Msg("catalog loaded")
	return c, nil
}

func fetch[T any](ctx context.Context, o loadOptions, what string, call func(context.Context) ([]T, error)) ([]T, error) {
	var out []T
	op := func() error {
		v, err := call(ctx)
		if err != nil {
			if client.IsIrrecoverable(err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = v
		return nil
	}
	b := backoff.WithContext(backoff.WithMaxRetries(o.newBack(), uint64(o.attempts-1)), ctx)
	notify := func(err error, wait time.Duration) {
		o.log.Warn().Err(err).Str("resource", what).Dur("retry_in", wait).Msg("catalog fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return nil, fmt.Errorf("load %s: %w", what, err)
	}
	return out, nil
}

// New builds a catalog from already-fetched data. Duplicate names keep the
// first occurrence.
func New(terms []client.Term, subjects []client.Subject) *Catalog {
	c := &Catalog{
		terms:    make([]client.Term, 0, len(terms)),
		subjects: append([]client.Subject(nil), subjects...),
		byName:   make(map[string]int, len(terms)),
		loadedAt: time.Now(),
	}
	for _, t := range terms {
		if _, dup := c.byName[t.Name]; dup {
			continue
		}
		c.byName[t.Name] = len(c.terms)
		c.terms = append(c.terms, t)
	}
	return c
}

// LoadedAt returns when the catalog was built.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

// Len returns the number of terms.
func (c *Catalog) Len() int { return len(c.terms) }

// Terms returns every term in catalog order.
func (c *Catalog) Terms() []client.Term {
	return append([]client.Term(nil), c.terms...)
}

// Subjects returns the subject list as served.
func (c *Catalog) Subjects() []client.Subject {
	return append([]client.Subject(nil), c.subjects...)
}

// Lookup finds a term by exact name.
func (c *Catalog) Lookup(name string) (client.Term, bool) {
	i, ok := c.byName[name]
	if !ok {
		return client.Term{}, false
	}
	return c.terms[i], true
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// BySubject returns the terms of subject in catalog order.
func (c *Catalog) BySubject(subject string) []client.Term {
	return c.filter(func(t client.Term) bool { return t.Subject == subject })
}

// ByLetter returns terms whose upper-cased name starts with letter.
func (c *Catalog) ByLetter(letter string) []client.Term {
	prefix := strings.ToUpper(strings.TrimSpace(letter))
	if prefix == "" {
		return []client.Term{}
	}
	return c.filter(func(t client.Term) bool { return strings.HasPrefix(strings.ToUpper(t.Name), prefix) })
}

// Suggest returns up to limit terms whose name contains query, case
// insensitively. Queries shorter than two characters return nothing.
func (c *Catalog) Suggest(query string, limit int) []client.Term {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinSuggestQuery {
		return []client.Term{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	out := make([]client.Term, 0, limit)
	for _, t := range c.terms {
		if strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Random returns n distinct terms drawn with rng.
func (c *Catalog) Random(n int, rng *rand.Rand) []client.Term {
	if n <= 0 || len(c.terms) == 0 {
		return []client.Term{}
	}
	if n > len(c.terms) {
		n = len(c.terms)
	}
	out := make([]client.Term, 0, n)
	for _, i := range rng.Perm(len(c.terms))[:n] {
		out = append(out, c.terms[i])
	}
	return out
}

// Select resolves names against the catalog, in catalog order. Unknown names
// are skipped.
func (c *Catalog) Select(names []string) []client.Term {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	return c.filter(func(t client.Term) bool {
		_, ok := want[t.Name]
		return ok
	})
}

func (c *Catalog) filter(keep func(client.Term) bool) []client.Term {
	out := []client.Term{}
	for _, t := range c.terms {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
