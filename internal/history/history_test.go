package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavinms/prism-project/client"
	"github.com/mavinms/prism-project/internal/localstore"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestActionLabel(t *testing.T) {
	cases := []struct {
		delta client.MetaUpdate
		want  string
	}{
		{client.FavoriteUpdate(true), "Marked as Favorite"},
		{client.FavoriteUpdate(false), "Removed from Favorites"},
		{client.BookmarkUpdate(true), "Bookmarked"},
		{client.BookmarkUpdate(false), "Removed Bookmark"},
		{client.DifficultyUpdate(client.DifficultyHard), "Set difficulty to hard"},
		{client.RatingUpdate(0), "Cleared rating"},
		{client.RatingUpdate(4), "Rated 4 stars"},
		{client.NotesUpdate("three word note"), "Added/Updated notes"},
		{client.NotesUpdate(""), "Cleared notes"},
		{client.DifficultyUpdate(""), "Updated"},
		{client.MetaUpdate{}, "Updated"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ActionLabel(c.delta))
	}

	both := client.RatingUpdate(3)
	fav := client.Flag(true)
	both.Favorite = &fav
	assert.Equal(t, "Marked as Favorite", ActionLabel(both), "favorite outranks rating")
}

func TestLedger_RecordNewestFirst(t *testing.T) {
	ctx := context.Background()
	clk := &clock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)}
	l := New(localstore.NewMemory(), WithClock(clk.now))

	_, err := l.Record(ctx, "Cell", "Biology", client.FavoriteUpdate(true))
	require.NoError(t, err)
	clk.t = clk.t.Add(time.Minute)
	e, err := l.Record(ctx, "Ohm's Law", "Physics", client.RatingUpdate(5))
	require.NoError(t, err)
	assert.Equal(t, "Rated 5 stars", e.Action)

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ohm's Law", all[0].Term)
	assert.Equal(t, "Cell", all[1].Term)
	require.NotNil(t, all[1].Details.Favorite)
	assert.True(t, bool(*all[1].Details.Favorite))
}

func TestLedger_CapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemory()
	clk := &clock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	l := New(store, WithClock(clk.now))

	seed := make([]Entry, 0, DefaultLimit)
	for i := DefaultLimit; i >= 1; i-- {
		seed = append(seed, Entry{Term: fmt.Sprintf("t%d", i), Action: "Updated", Timestamp: clk.t.Add(-time.Duration(DefaultLimit-i+1) * time.Second)})
	}
	require.NoError(t, localstore.Save(ctx, store, localstore.KeyHistory, seed))

	_, err := l.Record(ctx, "t501", "S", client.BookmarkUpdate(true))
	require.NoError(t, err)

	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, DefaultLimit)
	assert.Equal(t, "t501", all[0].Term)
	assert.Equal(t, "t2", all[len(all)-1].Term, "oldest entry t1 dropped")
}

func TestLedger_CustomLimit(t *testing.T) {
	ctx := context.Background()
	l := New(localstore.NewMemory(), WithLimit(3))
	for i := 0; i < 5; i++ {
		_, err := l.Record(ctx, fmt.Sprintf("t%d", i), "S", client.RatingUpdate(i%6))
		require.NoError(t, err)
	}
	all, err := l.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"t4", "t3", "t2"}, []string{all[0].Term, all[1].Term, all[2].Term})
}

func TestLedger_QueryPeriods(t *testing.T) {
	ctx := context.Background()
	store := localstore.NewMemory()
	now := time.Date(2024, 3, 14, 9, 30, 0, 0, time.Local)
	l := New(store, WithClock(func() time.Time { return now }))

	at := func(d time.Duration) Entry { return Entry{Term: d.String(), Timestamp: now.Add(-d)} }
	seed := []Entry{
		at(10 * time.Minute),
		at(time.Hour),
		at(2 * time.Hour),
		at(10 * time.Hour),
		at(3 * 24 * time.Hour),
		at(7 * 24 * time.Hour),
		at(20 * 24 * time.Hour),
		at(40 * 24 * time.Hour),
	}
	require.NoError(t, localstore.Save(ctx, store, localstore.KeyHistory, seed))

	count := func(p Period) int {
		es, err := l.Query(ctx, p)
		require.NoError(t, err)
		return len(es)
	}
	assert.Equal(t, 1, count(PeriodHour), "exactly one hour old is excluded")
	assert.Equal(t, 3, count(PeriodDay), "since local midnight")
	assert.Equal(t, 5, count(PeriodWeek))
	assert.Equal(t, 7, count(PeriodMonth))
	assert.Equal(t, 8, count(PeriodAll))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8, "query does not modify the ledger")
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	l := New(localstore.NewMemory())
	_, err := l.Record(ctx, "Cell", "Biology", client.NotesUpdate(""))
	require.NoError(t, err)
	require.NoError(t, l.Clear(ctx))
	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Week ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	_, err = ParsePeriod("year")
	assert.True(t, errors.Is(err, ErrUnknownPeriod))
}
