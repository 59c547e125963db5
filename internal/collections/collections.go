// Package collections manages user-defined groupings of term names with a
// one to four level hierarchical label.
package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mavinms/prism-project/internal/localstore"
)

const (
	// MaxLevels is the deepest hierarchy a collection name may have.
	MaxLevels = 4
	// Separator joins levels into the display name.
	Separator = " > "
)

var (
	ErrLevelRequired = errors.New("level 1 name is required")
	ErrTooManyLevels = fmt.Errorf("a collection has at most %d levels", MaxLevels)
	ErrNotFound      = errors.New("collection not found")
	ErrEmptyTerm     = errors.New("term name is required")
)

// Collection is a named set of term names kept in insertion order.
type Collection struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Levels  []string  `json:"levels"`
	Terms   []string  `json:"terms"`
	Created time.Time `json:"created"`
}

// Has reports whether term is in the collection.
func (c Collection) Has(term string) bool {
	for _, t := range c.Terms {
		if t == term {
			return true
		}
	}
	return false
}

func (c Collection) clone() Collection {
	c.Levels = append([]string{}, c.Levels...)
	c.Terms = append([]string{}, c.Terms...)
	return c
}

// UnmarshalJSON accepts documents with numeric ids and without levels, in
// which case levels are split out of the name.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var w struct {
		ID      json.RawMessage `json:"id"`
		Name    string          `json:"name"`
		Levels  []string        `json:"levels"`
		Terms   []string        `json:"terms"`
		Created time.Time       `json:"created"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	*c = Collection{ID: id, Name: w.Name, Levels: w.Levels, Terms: w.Terms, Created: w.Created}
	if len(c.Levels) == 0 && c.Name != "" {
		for _, l := range strings.Split(c.Name, Separator) {
			if l = strings.TrimSpace(l); l != "" {
				c.Levels = append(c.Levels, l)
			}
		}
	}
	if c.Terms == nil {
		c.Terms = []string{}
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("collection id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// NormalizeLevels trims levels, drops blank ones after the first, and
// enforces the Level 1 and depth rules.
func NormalizeLevels(raw []string) ([]string, error) {
	if len(raw) > MaxLevels {
		return nil, ErrTooManyLevels
	}
	if len(raw) == 0 || strings.TrimSpace(raw[0]) == "" {
		return nil, ErrLevelRequired
	}
	levels := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			levels = append(levels, l)
		}
	}
	return levels, nil
}

// JoinName renders levels as a display name.
func JoinName(levels []string) string {
	return strings.Join(levels, Separator)
}

// Manager persists collections under localstore.KeyCollections.
type Manager struct {
	mu    sync.Mutex
	store localstore.Store
	now   func() time.Time
	newID func() (string, error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(m *Manager) { m.newID = gen }
}

// NewManager returns a manager over store.
func NewManager(store localstore.Store, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now, newID: newUUIDv7}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (m *Manager) load(ctx context.Context) ([]Collection, error) {
	return localstore.Load(ctx, m.store, localstore.KeyCollections, []Collection{})
}

func (m *Manager) save(ctx context.Context, cs []Collection) error {
	return localstore.Save(ctx, m.store, localstore.KeyCollections, cs)
}

func indexOf(cs []Collection, id string) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}

// Create adds a collection named by levels. seed, when non-empty, becomes
// its first term.
func (m *Manager) Create(ctx context.Context, levels []string, seed string) (Collection, error) {
	norm, err := NormalizeLevels(levels)
	if err != nil {
		return Collection{}, err
	}
	id, err := m.newID()
	if err != nil {
		return Collection{}, fmt.Errorf("collection id: %w", err)
	}
	c := Collection{
		ID:      id,
		Name:    JoinName(norm),
		Levels:  norm,
		Terms:   []string{},
		Created: m.now(),
	}
	if seed = strings.TrimSpace(seed); seed != "" {
		c.Terms = append(c.Terms, seed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cs, err := m.load(ctx)
	if err != nil {
		return Collection{}, err
	}
	if err := m.save(ctx, append(cs, c)); err != nil {
		return Collection{}, err
	}
	return c.clone(), nil
}

// List returns every collection in creation order.
func (m *Manager) List(ctx context.Context) ([]Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Get returns the collection with id.
func (m *Manager) Get(ctx context.Context, id string) (Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, err := m.load(ctx)
	if err != nil {
		return Collection{}, err
	}
	i := indexOf(cs, id)
	if i < 0 {
		return Collection{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cs[i], nil
}

// mutate loads, applies fn to the collection with id, and saves when fn
// reports a change.
func (m *Manager) mutate(ctx context.Context, id string, fn func(*Collection) (bool, error)) (Collection, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, err := m.load(ctx)
	if err != nil {
		return Collection{}, false, err
	}
	i := indexOf(cs, id)
	if i < 0 {
		return Collection{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	changed, err := fn(&cs[i])
	if err != nil {
		return Collection{}, false, err
	}
	if changed {
		if err := m.save(ctx, cs); err != nil {
			return Collection{}, false, err
		}
	}
	return cs[i].clone(), changed, nil
}

// AddTerm appends term. It reports false when the term was already present.
func (m *Manager) AddTerm(ctx context.Context, id, term string) (bool, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return false, ErrEmptyTerm
	}
	_, added, err := m.mutate(ctx, id, func(c *Collection) (bool, error) {
		if c.Has(term) {
			return false, nil
		}
		c.Terms = append(c.Terms, term)
		return true, nil
	})
	return added, err
}

// RemoveTerm drops term. Removing an absent term is a no-op reported as false.
func (m *Manager) RemoveTerm(ctx context.Context, id, term string) (bool, error) {
	_, removed, err := m.mutate(ctx, id, func(c *Collection) (bool, error) {
		for i, t := range c.Terms {
			if t == term {
				c.Terms = append(c.Terms[:i], c.Terms[i+1:]...)
				return true, nil
			}
		}
		return false, nil
	})
	return removed, err
}

// Rename replaces the levels and recomputes the name. Terms are unchanged.
func (m *Manager) Rename(ctx context.Context, id string, levels []string) (Collection, error) {
	norm, err := NormalizeLevels(levels)
	if err != nil {
		return Collection{}, err
	}
	c, _, err := m.mutate(ctx, id, func(c *Collection) (bool, error) {
		c.Levels = norm
		c.Name = JoinName(norm)
		return true, nil
	})
	return c, err
}

// Delete removes the collection with id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, err := m.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(cs, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.save(ctx, append(cs[:i], cs[i+1:]...))
}
