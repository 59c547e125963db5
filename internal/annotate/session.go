// Package annotate holds the currently viewed term and writes user
// annotations through to the metadata service.
//
// The local copy of the viewed term's metadata changes only after the
// service confirms a write, and each confirmed write is recorded in the
// history ledger. Writes are not queued: when two writes for the same term
// race, whichever response arrives last determines the local copy.
package annotate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/history"
)

// MinNoteWords is the fewest whitespace-separated words a saved note may have.
const MinNoteWords = 3

var (
	ErrNoTermSelected = errors.New("no term selected")
	ErrNotesTooShort  = fmt.Errorf("notes too short: enter at least %d words to save", MinNoteWords)
)

// MetaStore is the metadata side of the catalog service.
type MetaStore interface {
	GetTerm(ctx context.Context, name string) (*client.TermDetail, error)
	SetMeta(ctx context.Context, term string, update client.MetaUpdate) error
}

// Recorder appends a confirmed change to the history ledger.
type Recorder interface {
	Record(ctx context.Context, term, subject string, delta client.MetaUpdate) (history.Entry, error)
}

// NotesOutcome tells a saved note from a cleared one.
type NotesOutcome int

const (
	NotesSaved NotesOutcome = iota + 1
	NotesCleared
)

// Session tracks the viewed term and applies updates to it.
type Session struct {
	mu      sync.Mutex
	store   MetaStore
	ledger  Recorder
	current *client.TermDetail
	log     zerolog.Logger
}

// NewSession returns a session with no term selected.
func NewSession(store MetaStore, ledger Recorder, log zerolog.Logger) *Session {
	return &Session{store: store, ledger: ledger, log: log}
}

// View fetches name with its metadata and makes it the current term.
// On failure the previous selection is kept.
func (s *Session) View(ctx context.Context, name string) (client.TermDetail, error) {
	detail, err := s.store.GetTerm(ctx, name)
	if err != nil {
		return client.TermDetail{}, err
	}
	s.mu.Lock()
	s.current = detail
	out := copyDetail(detail)
	s.mu.Unlock()
	return out, nil
}

// Current returns a copy of the viewed term.
func (s *Session) Current() (client.TermDetail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return client.TermDetail{}, false
	}
	return copyDetail(s.current), true
}

// Close deselects the current term.
func (s *Session) Close() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Apply validates update, writes it for the current term, and on success
// updates the local copy and records one history entry. A failed write
// leaves the local copy untouched and records nothing.
func (s *Session) Apply(ctx context.Context, update client.MetaUpdate) (client.TermMetadata, error) {
	if err := client.ValidateMetaUpdate(update); err != nil {
		return client.TermMetadata{}, err
	}
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return client.TermMetadata{}, ErrNoTermSelected
	}
	term, subject := s.current.Name, s.current.Subject
	s.mu.Unlock()

	var meta client.TermMetadata
	if err := s.write(ctx, term, subject, update, &meta); err != nil {
		return client.TermMetadata{}, err
	}
	return meta, nil
}

// Edit is a set of changes addressed to one term by name. Notes, when set,
// follow the same rule as SaveNotes.
type Edit struct {
	Update client.MetaUpdate
	Notes  *string
}

// EditResult is the term's metadata after an Edit, and what happened to
// its notes (zero when the edit carried none).
type EditResult struct {
	Meta  client.TermMetadata
	Notes NotesOutcome
}

// EditTerm applies e to the named term without touching the current
// selection, so concurrent edits of different terms never cross. Every
// field, notes included, is validated against a fresh read of the term
// before the first write. Field changes and notes are written as separate
// updates, each with its own history entry.
func (s *Session) EditTerm(ctx context.Context, name string, e Edit) (EditResult, error) {
	fields := e.Update
	notes := e.Notes
	if fields.Notes != nil {
		if notes == nil {
			notes = fields.Notes
		}
		fields.Notes = nil
	}
	if fields.Empty() && notes == nil {
		return EditResult{}, client.ErrEmptyUpdate
	}
	if !fields.Empty() {
		if err := client.ValidateMetaUpdate(fields); err != nil {
			return EditResult{}, err
		}
	}

	detail, err := s.store.GetTerm(ctx, name)
	if err != nil {
		return EditResult{}, err
	}
	var (
		notesUpdate client.MetaUpdate
		outcome     NotesOutcome
	)
	if notes != nil {
		if notesUpdate, outcome, err = NotesChange(detail.Meta.Notes, *notes); err != nil {
			return EditResult{}, err
		}
	}

	res := EditResult{Meta: detail.Meta}
	for _, u := range []client.MetaUpdate{fields, notesUpdate} {
		if u.Empty() {
			continue
		}
		if err := s.write(ctx, detail.Name, detail.Subject, u, &res.Meta); err != nil {
			return EditResult{}, err
		}
	}
	res.Notes = outcome
	return res, nil
}

// write sends update for term, then applies it to meta and to the current
// term's copy if that is the same term, and records it in the ledger.
func (s *Session) write(ctx context.Context, term, subject string, update client.MetaUpdate, meta *client.TermMetadata) error {
	if err := s.store.SetMeta(ctx, term, update); err != nil {
		s.log.Error().Err(err).Str("term", term).Msg("metadata write failed")
		return fmt.Errorf("save %s: %w", term, err)
	}

	s.mu.Lock()
	if s.current != nil && s.current.Name == term {
		update.ApplyTo(&s.current.Meta)
		*meta = s.current.Meta
	} else {
		update.ApplyTo(meta)
	}
	s.mu.Unlock()

	if s.ledger != nil {
		if _, err := s.ledger.Record(ctx, term, subject, update); err != nil {
			s.log.Warn().Err(err).Str("term", term).Msg("history record failed")
		}
	}
	return nil
}

// ToggleFavorite flips the favorite flag of the current term.
func (s *Session) ToggleFavorite(ctx context.Context) (client.TermMetadata, error) {
	cur, ok := s.Current()
	if !ok {
		return client.TermMetadata{}, ErrNoTermSelected
	}
	return s.Apply(ctx, client.FavoriteUpdate(!bool(cur.Meta.Favorite)))
}

// ToggleBookmark flips the bookmark flag of the current term.
func (s *Session) ToggleBookmark(ctx context.Context) (client.TermMetadata, error) {
	cur, ok := s.Current()
	if !ok {
		return client.TermMetadata{}, ErrNoTermSelected
	}
	return s.Apply(ctx, client.BookmarkUpdate(!bool(cur.Meta.Bookmark)))
}

// SetDifficulty records the user's difficulty assessment.
func (s *Session) SetDifficulty(ctx context.Context, d client.Difficulty) (client.TermMetadata, error) {
	return s.Apply(ctx, client.DifficultyUpdate(d))
}

// SetRating sets a 0-5 rating; 0 clears it.
func (s *Session) SetRating(ctx context.Context, r int) (client.TermMetadata, error) {
	return s.Apply(ctx, client.RatingUpdate(r))
}

// SaveNotes saves text as the current term's notes. Text with fewer than
// MinNoteWords words is rejected with ErrNotesTooShort, except that when the
// term already has notes it clears them instead.
func (s *Session) SaveNotes(ctx context.Context, text string) (NotesOutcome, client.TermMetadata, error) {
	cur, ok := s.Current()
	if !ok {
		return 0, client.TermMetadata{}, ErrNoTermSelected
	}
	update, outcome, err := NotesChange(cur.Meta.Notes, text)
	if err != nil {
		return 0, client.TermMetadata{}, err
	}
	meta, err := s.Apply(ctx, update)
	if err != nil {
		return 0, client.TermMetadata{}, err
	}
	return outcome, meta, nil
}

// NotesChange decides what saving text does to a term whose notes are
// prior: text of MinNoteWords words or more is saved trimmed, shorter text
// clears prior notes, and shorter text with no prior notes is rejected.
func NotesChange(prior, text string) (client.MetaUpdate, NotesOutcome, error) {
	trimmed := strings.TrimSpace(text)
	if len(strings.Fields(trimmed)) >= MinNoteWords {
		return client.NotesUpdate(trimmed), NotesSaved, nil
	}
	if strings.TrimSpace(prior) == "" {
		return client.MetaUpdate{}, 0, ErrNotesTooShort
	}
	return client.NotesUpdate(""), NotesCleared, nil
}

func copyDetail(d *client.TermDetail) client.TermDetail {
	out := *d
	out.KeyPoints = append([]string(nil), d.KeyPoints...)
	out.ObjectiveQA = append([]client.QA(nil), d.ObjectiveQA...)
	out.DescriptiveQA = append([]client.QA(nil), d.DescriptiveQA...)
	out.Quiz = append([]client.QuizItem(nil), d.Quiz...)
	if d.Meta.LastViewed != nil {
		ts := *d.Meta.LastViewed
		out.Meta.LastViewed = &ts
	}
	return out
}
