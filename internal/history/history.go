// Package history is the bounded, newest-first ledger of metadata changes.
package history

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/localstore"
	"github.com/mavinms/prism-project/internal/precedence"
)

// DefaultLimit is the maximum number of retained entries.
const DefaultLimit = 500

// Entry records one confirmed metadata write.
type Entry struct {
	Term      string            `json:"term"`
	Subject   string            `json:"subject"`
	Action    string            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	Details   client.MetaUpdate `json:"details"`
}

var actionRules = precedence.List[client.MetaUpdate, string]{
	{Name: "favorite", Match: func(d client.MetaUpdate) bool { return d.Favorite != nil }, Label: func(d client.MetaUpdate) string {
		if *d.Favorite {
			return "Marked as Favorite"
		}
		return "Removed from Favorites"
	}},
	{Name: "bookmark", Match: func(d client.MetaUpdate) bool { return d.Bookmark != nil }, Label: func(d client.MetaUpdate) string {
		if *d.Bookmark {
			return "Bookmarked"
		}
		return "Removed Bookmark"
	}},
	{Name: "difficulty", Match: func(d client.MetaUpdate) bool { return d.Difficulty != nil && *d.Difficulty != "" }, Label: func(d client.MetaUpdate) string {
		return "Set difficulty to " + string(*d.Difficulty)
	}},
	{Name: "rating", Match: func(d client.MetaUpdate) bool { return d.Rating != nil }, Label: func(d client.MetaUpdate) string {
		if *d.Rating == 0 {
			return "Cleared rating"
		}
		return "Rated " + strconv.Itoa(*d.Rating) + " stars"
	}},
	{Name: "notes", Match: func(d client.MetaUpdate) bool { return d.Notes != nil }, Label: func(d client.MetaUpdate) string {
		if *d.Notes != "" {
			return "Added/Updated notes"
		}
		return "Cleared notes"
	}},
}

// ActionLabel describes a delta. When several fields are set the first of
// favorite, bookmark, difficulty, rating, notes decides.
func ActionLabel(delta client.MetaUpdate) string {
	return actionRules.FirstOr(delta, "Updated")
}

// Ledger persists entries under localstore.KeyHistory.
type Ledger struct {
	mu    sync.Mutex
	store localstore.Store
	limit int
	now   func() time.Time
	log   zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLimit sets the retention cap.
func WithLimit(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the ledger's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Ledger) { l.log = log }
}

// New returns a ledger over store.
func New(store localstore.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store, limit: DefaultLimit, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Limit returns the retention cap.
func (l *Ledger) Limit() int { return l.limit }

// Record inserts an entry for delta at the head and evicts from the tail
// beyond the cap.
func (l *Ledger) Record(ctx context.Context, term, subject string, delta client.MetaUpdate) (Entry, error) {
	e := Entry{
		Term:      term,
		Subject:   subject,
		Action:    ActionLabel(delta),
		Timestamp: l.now(),
		Details:   delta,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := localstore.Load(ctx, l.store, localstore.KeyHistory, []Entry{})
	if err != nil {
		return Entry{}, err
	}
	next := make([]Entry, 0, min(len(entries)+1, l.limit))
	next = append(next, e)
	next = append(next, entries...)
	if len(next) > l.limit {
		evicted := len(next) - l.limit
		next = next[:l.limit]
		evictedTotal.Add(float64(evicted))
		l.log.Debug().Int("evicted", evicted).Msg("history trimmed")
	}
	if err := localstore.Save(ctx, l.store, localstore.KeyHistory, next); err != nil {
		return Entry{}, err
	}
	recordedTotal.Inc()
	return e, nil
}

// All returns every entry, newest first.
func (l *Ledger) All(ctx context.Context) ([]Entry, error) {
	return l.Query(ctx, PeriodAll)
}

// Query returns the entries newer than the period's cutoff, newest first.
// The stored ledger is not modified.
func (l *Ledger) Query(ctx context.Context, p Period) ([]Entry, error) {
	cutoff, bounded, err := Cutoff(p, l.now())
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	entries, err := localstore.Load(ctx, l.store, localstore.KeyHistory, []Entry{})
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !bounded {
		return entries, nil
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear removes every entry.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := localstore.Save(ctx, l.store, localstore.KeyHistory, []Entry{}); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
