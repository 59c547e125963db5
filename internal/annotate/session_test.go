package annotate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/history"
	"github.com/mavinms/prism-project/internal/localstore"
)

type fakeStore struct {
	mu      sync.Mutex
	detail  map[string]client.TermDetail
	writes  []client.MetaUpdate
	targets []string
	fail    error
}

func (f *fakeStore) GetTerm(ctx context.Context, name string) (*client.TermDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.detail[name]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &d, nil
}

func (f *fakeStore) SetMeta(ctx context.Context, term string, u client.MetaUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.writes = append(f.writes, u)
	f.targets = append(f.targets, term)
	return nil
}

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func setup(t *testing.T, notes string) (*Session, *fakeStore, *history.Ledger) {
	t.Helper()
	store := &fakeStore{detail: map[string]client.TermDetail{
		"Cell": {
			Term: client.Term{Name: "Cell", Subject: "Biology"},
			Meta: client.TermMetadata{Difficulty: client.DifficultyUnknown, Notes: notes},
		},
	}}
	ledger := history.New(localstore.NewMemory())
	s := NewSession(store, ledger, zerolog.Nop())
	_, err := s.View(context.Background(), "Cell")
	require.NoError(t, err)
	return s, store, ledger
}

func entries(t *testing.T, l *history.Ledger) []history.Entry {
	t.Helper()
	es, err := l.All(context.Background())
	require.NoError(t, err)
	return es
}

func TestApply_SuccessUpdatesMirrorAndHistory(t *testing.T) {
	s, _, ledger := setup(t, "")
	ctx := context.Background()

	meta, err := s.ToggleFavorite(ctx)
	require.NoError(t, err)
	assert.True(t, bool(meta.Favorite))

	cur, _ := s.Current()
	assert.True(t, bool(cur.Meta.Favorite))

	es := entries(t, ledger)
	require.Len(t, es, 1)
	assert.Equal(t, "Marked as Favorite", es[0].Action)
	assert.Equal(t, "Biology", es[0].Subject)

	_, err = s.ToggleFavorite(ctx)
	require.NoError(t, err)
	cur, _ = s.Current()
	assert.False(t, bool(cur.Meta.Favorite))
	assert.Equal(t, "Removed from Favorites", entries(t, ledger)[0].Action)
}

func TestApply_FailureLeavesMirrorAndHistoryUntouched(t *testing.T) {
	s, store, ledger := setup(t, "")
	store.fail = errors.New("connection reset")

	_, err := s.SetRating(context.Background(), 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.fail)

	cur, _ := s.Current()
	assert.Equal(t, 0, cur.Meta.Rating)
	assert.Empty(t, entries(t, ledger))
}

func TestApply_ValidationBeforeWrite(t *testing.T) {
	s, store, _ := setup(t, "")
	ctx := context.Background()

	_, err := s.SetRating(ctx, 6)
	assert.ErrorIs(t, err, client.ErrInvalidRating)
	_, err = s.SetDifficulty(ctx, "impossible")
	assert.ErrorIs(t, err, client.ErrInvalidDifficulty)
	assert.Equal(t, 0, store.writeCount())
}

func TestApply_RatingZeroIsAWrite(t *testing.T) {
	s, store, ledger := setup(t, "")
	ctx := context.Background()

	_, err := s.SetRating(ctx, 3)
	require.NoError(t, err)
	meta, err := s.SetRating(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Rating)
	assert.Equal(t, 2, store.writeCount())
	assert.Equal(t, "Cleared rating", entries(t, ledger)[0].Action)
}

func TestApply_NoTermSelected(t *testing.T) {
	s := NewSession(&fakeStore{}, nil, zerolog.Nop())
	_, err := s.ToggleBookmark(context.Background())
	assert.ErrorIs(t, err, ErrNoTermSelected)
	_, err = s.SetDifficulty(context.Background(), client.DifficultyEasy)
	assert.ErrorIs(t, err, ErrNoTermSelected)
}

func TestSaveNotes_ShortWithoutPriorIsRejected(t *testing.T) {
	s, store, ledger := setup(t, "")

	_, _, err := s.SaveNotes(context.Background(), "ok")
	assert.ErrorIs(t, err, ErrNotesTooShort)
	assert.Equal(t, 0, store.writeCount())
	assert.Empty(t, entries(t, ledger))
}

func TestSaveNotes_ShortWithPriorClears(t *testing.T) {
	s, store, ledger := setup(t, "some real notes")

	outcome, meta, err := s.SaveNotes(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, NotesCleared, outcome)
	assert.Equal(t, "", meta.Notes)
	require.Equal(t, 1, store.writeCount())
	require.NotNil(t, store.writes[0].Notes)
	assert.Equal(t, "", *store.writes[0].Notes)
	assert.Equal(t, "Cleared notes", entries(t, ledger)[0].Action)
}

func TestSaveNotes_ThreeWordsSavesTrimmed(t *testing.T) {
	s, store, _ := setup(t, "")

	outcome, meta, err := s.SaveNotes(context.Background(), "  cells divide   by mitosis \n")
	require.NoError(t, err)
	assert.Equal(t, NotesSaved, outcome)
	assert.Equal(t, "cells divide   by mitosis", meta.Notes)
	assert.Equal(t, "cells divide   by mitosis", *store.writes[0].Notes)
}

func addAtom(store *fakeStore) {
	store.mu.Lock()
	store.detail["Atom"] = client.TermDetail{Term: client.Term{Name: "Atom", Subject: "Chemistry"}}
	store.mu.Unlock()
}

func TestEditTerm_WritesNamedTermNotViewed(t *testing.T) {
	s, store, ledger := setup(t, "")
	addAtom(store)

	notes := "smallest unit of matter"
	res, err := s.EditTerm(context.Background(), "Atom", Edit{Update: client.FavoriteUpdate(true), Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, NotesSaved, res.Notes)
	assert.True(t, bool(res.Meta.Favorite))
	assert.Equal(t, notes, res.Meta.Notes)
	assert.Equal(t, []string{"Atom", "Atom"}, store.targets)

	cur, _ := s.Current()
	assert.Equal(t, "Cell", cur.Name)
	assert.False(t, bool(cur.Meta.Favorite))

	es := entries(t, ledger)
	require.Len(t, es, 2)
	assert.Equal(t, "Atom", es[0].Term)
	assert.Equal(t, "Chemistry", es[0].Subject)
}

func TestEditTerm_UpdatesMirrorOfViewedTerm(t *testing.T) {
	s, _, _ := setup(t, "")

	_, err := s.EditTerm(context.Background(), "Cell", Edit{Update: client.RatingUpdate(5)})
	require.NoError(t, err)
	cur, _ := s.Current()
	assert.Equal(t, 5, cur.Meta.Rating)
}

func TestEditTerm_ValidatesEverythingBeforeWriting(t *testing.T) {
	s, store, ledger := setup(t, "")
	ctx := context.Background()

	short := "ok"
	_, err := s.EditTerm(ctx, "Cell", Edit{Update: client.FavoriteUpdate(true), Notes: &short})
	assert.ErrorIs(t, err, ErrNotesTooShort)

	long := "three whole words"
	_, err = s.EditTerm(ctx, "Cell", Edit{Update: client.RatingUpdate(9), Notes: &long})
	assert.ErrorIs(t, err, client.ErrInvalidRating)

	_, err = s.EditTerm(ctx, "Cell", Edit{})
	assert.ErrorIs(t, err, client.ErrEmptyUpdate)

	assert.Equal(t, 0, store.writeCount())
	assert.Empty(t, entries(t, ledger))
}

func TestEditTerm_ShortNotesClearStoredNotes(t *testing.T) {
	s, store, _ := setup(t, "")
	store.mu.Lock()
	d := store.detail["Cell"]
	d.Meta.Notes = "written elsewhere meanwhile"
	store.detail["Cell"] = d
	store.mu.Unlock()

	short := "ok"
	res, err := s.EditTerm(context.Background(), "Cell", Edit{Notes: &short})
	require.NoError(t, err)
	assert.Equal(t, NotesCleared, res.Notes)
	assert.Equal(t, "", res.Meta.Notes)
}

func TestEditTerm_ConcurrentEditsStayOnTheirTerm(t *testing.T) {
	s, store, _ := setup(t, "")
	addAtom(store)
	ctx := context.Background()
	notes := "protons neutrons and electrons"

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.EditTerm(ctx, "Atom", Edit{Update: client.FavoriteUpdate(true), Notes: &notes})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.View(ctx, "Cell")
			assert.NoError(t, err)
			_, err = s.EditTerm(ctx, "Cell", Edit{Update: client.BookmarkUpdate(true)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.writes, 150)
	for i, u := range store.writes {
		switch {
		case u.Notes != nil, u.Favorite != nil:
			assert.Equal(t, "Atom", store.targets[i])
		case u.Bookmark != nil:
			assert.Equal(t, "Cell", store.targets[i])
		}
	}
}

func TestNotesChange(t *testing.T) {
	u, outcome, err := NotesChange("", " a b  c ")
	require.NoError(t, err)
	assert.Equal(t, NotesSaved, outcome)
	assert.Equal(t, "a b  c", *u.Notes)

	u, outcome, err = NotesChange("old notes here", "x")
	require.NoError(t, err)
	assert.Equal(t, NotesCleared, outcome)
	assert.Equal(t, "", *u.Notes)

	_, _, err = NotesChange("   ", "x y")
	assert.ErrorIs(t, err, ErrNotesTooShort)
}

func TestView_UnknownKeepsSelection(t *testing.T) {
	s, _, _ := setup(t, "")
	_, err := s.View(context.Background(), "Nope")
	assert.ErrorIs(t, err, client.ErrNotFound)
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Cell", cur.Name)
}
