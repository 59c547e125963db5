package collections

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavinms/prism-project/internal/localstore"
)

func newManager() *Manager {
	return NewManager(localstore.NewMemory())
}

func TestCreate_NameFromNonBlankLevels(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	c, err := m.Create(ctx, []string{"Class 10", "Biology", "", ""}, "")
	require.NoError(t, err)
	assert.Equal(t, "Class 10 > Biology", c.Name)
	assert.Equal(t, []string{"Class 10", "Biology"}, c.Levels)
	assert.Empty(t, c.Terms)
	assert.NotEmpty(t, c.ID)
}

func TestCreate_LevelRules(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	_, err := m.Create(ctx, []string{"   ", "Biology"}, "")
	assert.True(t, errors.Is(err, ErrLevelRequired))
	_, err = m.Create(ctx, nil, "")
	assert.True(t, errors.Is(err, ErrLevelRequired))
	_, err = m.Create(ctx, []string{"a", "b", "c", "d", "e"}, "")
	assert.True(t, errors.Is(err, ErrTooManyLevels))

	cs, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, cs, "failed creates persist nothing")
}

func TestCreate_SeedsCurrentTerm(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	c, err := m.Create(ctx, []string{" Class 10 "}, "Mitosis")
	require.NoError(t, err)
	assert.Equal(t, "Class 10", c.Name)
	assert.Equal(t, []string{"Mitosis"}, c.Terms)
}

func TestAddTerm_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	c, err := m.Create(ctx, []string{"Class 10", "Biology"}, "")
	require.NoError(t, err)

	added, err := m.AddTerm(ctx, c.ID, "Mitosis")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = m.AddTerm(ctx, c.ID, "Mitosis")
	require.NoError(t, err)
	assert.False(t, added, "second add reports already present")

	got, err := m.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mitosis"}, got.Terms)
}

func TestRemoveTerm(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	c, err := m.Create(ctx, []string{"Physics"}, "Ohm's Law")
	require.NoError(t, err)
	_, err = m.AddTerm(ctx, c.ID, "Current")
	require.NoError(t, err)

	removed, err := m.RemoveTerm(ctx, c.ID, "Voltage")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = m.RemoveTerm(ctx, c.ID, "Ohm's Law")
	require.NoError(t, err)
	assert.True(t, removed)

	got, err := m.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Current"}, got.Terms)
}

func TestRename_KeepsTerms(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	c, err := m.Create(ctx, []string{"Class 9"}, "Cell")
	require.NoError(t, err)

	renamed, err := m.Rename(ctx, c.ID, []string{"Class 10", "", "Revision"})
	require.NoError(t, err)
	assert.Equal(t, "Class 10 > Revision", renamed.Name)
	assert.Equal(t, []string{"Cell"}, renamed.Terms)

	_, err = m.Rename(ctx, c.ID, []string{""})
	assert.True(t, errors.Is(err, ErrLevelRequired))
	got, err := m.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Class 10 > Revision", got.Name)
}

func TestDelete_ThenLookupFails(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	c, err := m.Create(ctx, []string{"Class 10", "Physics"}, "")
	require.NoError(t, err)
	_, err = m.AddTerm(ctx, c.ID, "Ohm's Law")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, c.ID))
	_, err = m.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(m.Delete(ctx, c.ID), ErrNotFound))
	_, err = m.AddTerm(ctx, c.ID, "x")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	for _, n := range []string{"B", "A", "C"} {
		_, err := m.Create(ctx, []string{n}, "")
		require.NoError(t, err)
	}
	cs, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{cs[0].Name, cs[1].Name, cs[2].Name})
}

func TestLoad_LegacyDocument(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemory()
	legacy := `[{"id":1712345678901,"name":"Class 10 > Biology > Cells","terms":["Cell"],"created":"2024-04-05T10:00:00.000Z"}]`
	require.NoError(t, store.Put(ctx, localstore.KeyCollections, []byte(legacy)))

	m := NewManager(store)
	c, err := m.Get(ctx, "1712345678901")
	require.NoError(t, err)
	assert.Equal(t, []string{"Class 10", "Biology", "Cells"}, c.Levels)
	assert.Equal(t, []string{"Cell"}, c.Terms)
}
