package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/annotate"
	"github.com/mavinms/prism-project/internal/apitest"
	"github.com/mavinms/prism-project/internal/collections"
	"github.com/mavinms/prism-project/internal/homework"
)

func setupEnv(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(
		client.Term{Name: "A", Subject: "X"},
		client.Term{Name: "B", Subject: "Y"},
		client.Term{Name: "C", Subject: "X"},
		client.Term{Name: "Ohm's Law", Subject: "Physics"},
	)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Setenv("PRISM_API_URL", srv.URL)
	t.Setenv("PRISM_STORE_DRIVER", "sqlite")
	t.Setenv("PRISM_DATA_DIR", dir)
	t.Setenv("PRISM_STORE_PATH", filepath.Join(dir, "prism.db"))
	t.Setenv("PRISM_MIN_QUERY_LENGTH", "1")
	t.Setenv("PRISM_SEARCH_DEBOUNCE", "10ms")
	return srv
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SearchRanksFavorites(t *testing.T) {
	srv := setupEnv(t)

	out, err := run(t, "", "search", "x")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "A"), strings.Index(out, "C"))

	_, err = run(t, "", "favorite", "C")
	require.NoError(t, err)
	m, _ := srv.Meta("C")
	assert.True(t, bool(m.Favorite))

	out, err = run(t, "", "search", "x")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "C"))
	assert.Contains(t, lines[0], "High Priority")
}

func TestCLI_CollectionLifecycle(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "collections", "create", "Class 10", "Physics")
	require.NoError(t, err)
	require.Contains(t, out, "Class 10 > Physics")
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 3)
	id := fields[2]

	out, err = run(t, "", "collections", "add", id, "Ohm's Law")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Ohm's Law")

	_, err = run(t, "", "collections", "add", id, "Gravity")
	assert.ErrorIs(t, err, errUnknownTerm)

	out, err = run(t, "", "collections", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Ohm's Law")

	out, err = run(t, "n\n", "collections", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")

	out, err = run(t, "", "--yes", "collections", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Collection deleted")

	_, err = run(t, "", "collections", "show", id)
	assert.ErrorIs(t, err, collections.ErrNotFound)
}

func TestCLI_NotesAndHistory(t *testing.T) {
	srv := setupEnv(t)

	_, err := run(t, "", "notes", "B", "too", "short")
	assert.ErrorIs(t, err, annotate.ErrNotesTooShort)

	out, err := run(t, "", "notes", "B", "three", "whole", "words")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes saved")
	m, _ := srv.Meta("B")
	assert.Equal(t, "three whole words", m.Notes)

	out, err = run(t, "", "notes", "B", "short")
	require.NoError(t, err)
	assert.Contains(t, out, "Notes cleared")

	_, err = run(t, "", "difficulty", "B", "extreme")
	assert.ErrorIs(t, err, client.ErrInvalidDifficulty)

	out, err = run(t, "", "history", "list", "--period", "day")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared notes")
	assert.Contains(t, out, "Added/Updated notes")
	assert.Contains(t, out, "(keeping the latest 500 changes)")

	out, err = run(t, "yes\n", "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	out, err = run(t, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No history")
}

func TestCLI_Homework(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "homework", "add", "A", "next week")
	assert.ErrorIs(t, err, homework.ErrInvalidItem)

	out, err := run(t, "", "homework", "add", "Ohm's Law", "2026-11-02", "--notes", "chapter 4")
	require.NoError(t, err)
	assert.Contains(t, out, "due 2026-11-02")

	out, err = run(t, "", "homework", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "chapter 4")

	out, err = run(t, "", "homework", "suggest", "oh")
	require.NoError(t, err)
	assert.Contains(t, out, "Ohm's Law")
}

func TestCLI_WatchPrintsFinalQuery(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "P\nPh\nPhys\n", "watch")
	require.NoError(t, err)
	assert.Contains(t, out, "Ohm's Law")
}

func TestCLI_StatsAndFilter(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "bookmark", "A")
	require.NoError(t, err)

	out, err := run(t, "", "filter", "bookmarks")
	require.NoError(t, err)
	assert.Contains(t, out, "A")

	_, err = run(t, "", "filter", "difficulty")
	assert.ErrorIs(t, err, client.ErrInvalidFilter)

	out, err = run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total terms")
	assert.Contains(t, out, "Physics")
	assert.Contains(t, out, "Catalog loaded")
}

func TestCLI_TermNotFound(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "", "term", "Nope")
	assert.ErrorIs(t, err, client.ErrNotFound)
}
