package localstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Name  string   `json:"name"`
	Terms []string `json:"terms"`
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "prism.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": sq}
}

func TestStore_LoadDefaultWhenAbsent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := Load(ctx, s, KeyCollections, []doc{})
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestStore_SaveLoadReplace(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Save(ctx, s, KeyHomework, []doc{{Name: "a", Terms: []string{"x"}}}))
			require.NoError(t, Save(ctx, s, KeyHomework, []doc{{Name: "b"}}))

			got, err := Load(ctx, s, KeyHomework, []doc(nil))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "b", got[0].Name)

			require.NoError(t, s.Delete(ctx, KeyHomework))
			require.NoError(t, s.Delete(ctx, KeyHomework))
			_, ok, err := s.Get(ctx, KeyHomework)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, KeyHistory, []byte("{not json")))
			_, err := Load(ctx, s, KeyHistory, []doc{})
			assert.True(t, errors.Is(err, ErrCorrupt), "got %v", err)
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prism.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, Save(ctx, s, KeyCollections, []doc{{Name: "Class 10"}}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := Load(ctx, s, KeyCollections, []doc{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Class 10", got[0].Name)
	assert.NoError(t, s.HealthCheck(ctx))
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open("sqlite", "")
	assert.Error(t, err)

	_, err = Open("postgres", "x")
	assert.Error(t, err)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte(`"abc"`)
	require.NoError(t, m.Put(ctx, KeyTheme, buf))
	buf[1] = 'z'
	got, ok, err := m.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"abc"`, string(got))
}
