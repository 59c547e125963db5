// Package homework keeps the user's list of term reminders with due dates.
package homework

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mavinms/prism-project/internal/localstore"
)

// DateLayout is the due date format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidItem = errors.New("invalid homework item")
	ErrNotFound    = errors.New("homework item not found")
)

// Item is one reminder. Items are never edited; delete and re-add instead.
type Item struct {
	ID    string    `json:"id"`
	Term  string    `json:"term"`
	Date  string    `json:"date"`
	Notes string    `json:"notes"`
	Added time.Time `json:"added"`
}

// Due parses Date in loc.
func (i Item) Due(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, i.Date, loc)
}

// NewItem is the input to Add.
type NewItem struct {
	Term  string `validate:"required"`
	Date  string `validate:"required,datetime=2006-01-02"`
	Notes string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate trims the fields and checks them.
func (n *NewItem) Validate() error {
	n.Term = strings.TrimSpace(n.Term)
	n.Date = strings.TrimSpace(n.Date)
	n.Notes = strings.TrimSpace(n.Notes)
	if err := validate.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
			}
			return fmt.Errorf("%w: %s", ErrInvalidItem, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return nil
}

// Tracker persists items under localstore.KeyHomework.
type Tracker struct {
	mu    sync.Mutex
	store localstore.Store
	now   func() time.Time
}

// NewTracker returns a tracker over store.
func NewTracker(store localstore.Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// load returns the stored items, assigning ids to items saved without one.
func (t *Tracker) load(ctx context.Context) ([]Item, error) {
	items, err := localstore.Load(ctx, t.store, localstore.KeyHomework, []Item{})
	if err != nil {
		return nil, err
	}
	missing := false
	for i := range items {
		if items[i].ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, err
			}
			items[i].ID = id.String()
			missing = true
		}
	}
	if missing {
		if err := localstore.Save(ctx, t.store, localstore.KeyHomework, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Add validates in and appends it. Nothing is stored when validation fails.
func (t *Tracker) Add(ctx context.Context, in NewItem) (Item, error) {
	if err := in.Validate(); err != nil {
		return Item{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Item{}, err
	}
	item := Item{ID: id.String(), Term: in.Term, Date: in.Date, Notes: in.Notes, Added: t.now()}

	t.mu.Lock()
	defer t.mu.Unlock()
	items, err := t.load(ctx)
	if err != nil {
		return Item{}, err
	}
	if err := localstore.Save(ctx, t.store, localstore.KeyHomework, append(items, item)); err != nil {
		return Item{}, err
	}
	return item, nil
}

// List returns items in the order they were added.
func (t *Tracker) List(ctx context.Context) ([]Item, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// Delete removes the item with id.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	items, err := t.load(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			return localstore.Save(ctx, t.store, localstore.KeyHomework, append(items[:i], items[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
