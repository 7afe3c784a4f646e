package demo

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/diff"
)

const testList = 1

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(id int64, title string) diff.Record {
	return diff.Record{Type: itemType, Identity: id, Fields: map[string]string{"title": title}}
}

func identities(records []diff.Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.Identity
	}
	return ids
}

func TestChanges(t *testing.T) {
	prev := []diff.Record{record(1, "a"), record(2, "b"), record(3, "c"), record(4, "d")}
	next := []diff.Record{record(1, "a"), record(3, "c"), record(5, "e"), record(4, "d")}

	changes := Changes(prev, next)
	require.Equal(t, []int{1}, changes.Removed)
	require.Equal(t, []int{2}, changes.Added)
	require.Empty(t, changes.Moved)

	require.Empty(t, Changes(prev, prev).Added)
}

func TestFeedSeedsHeader(t *testing.T) {
	source := diff.NewMemorySource()
	NewFeed(source, testList, 5, 1, quietLogger())

	records := source.Records(testList)
	require.Len(t, records, 6)
	require.True(t, records[0].Header)
	require.Equal(t, headerType, records[0].Type)
	for _, r := range records[1:] {
		require.Equal(t, itemType, r.Type)
		require.NotEmpty(t, r.Fields["title"])
	}
}

func TestFeedQueryStagesDiff(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 5, 1, quietLogger())

	feed.SetQuery("zzzz")
	require.True(t, source.Pending(testList))
	source.CommitPending(testList)
	require.Equal(t, 1, source.Length(testList))
	require.Equal(t, []int{1, 2, 3, 4, 5}, source.Removed(testList))

	feed.SetQuery("")
	source.CommitPending(testList)
	require.Equal(t, 6, source.Length(testList))
	require.Equal(t, []int{1, 2, 3, 4, 5}, source.Added(testList))
}

func TestFeedRetriesAfterPendingCommit(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 3, 1, quietLogger())

	feed.SetQuery("zzzz")
	// The first snapshot is still pending, so this one is held back.
	feed.SetQuery("")
	source.CommitPending(testList)
	require.Equal(t, 1, source.Length(testList))

	feed.Retry()
	require.True(t, source.Pending(testList))
	source.CommitPending(testList)
	require.Equal(t, 4, source.Length(testList))
}

func TestFeedStepChangesOneRow(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 5, 7, quietLogger())

	feed.Step()
	source.CommitPending(testList)
	changed := len(source.Added(testList)) + len(source.Removed(testList))
	require.Equal(t, 1, changed)
	require.True(t, source.Records(testList)[0].Header)
}

func TestFeedReorder(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 3, 1, quietLogger())
	before := identities(source.Records(testList))

	require.False(t, feed.Movable(0))
	require.True(t, feed.Movable(1))
	require.False(t, feed.Reorder(1, 0))

	require.True(t, feed.Reorder(1, 3))
	want := []int64{before[0], before[2], before[3], before[1]}
	require.Equal(t, want, identities(source.Records(testList)))
	require.Equal(t, want, identities(feed.all))
}

func TestFeedReorderFiltered(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 0, 1, quietLogger())

	header := feed.all[0]
	feed.all = []diff.Record{header, record(10, "a"), record(11, "b"), record(12, "c"), record(13, "d")}
	feed.visible = []diff.Record{header, record(10, "a"), record(12, "c")}
	source.Put(testList, feed.visible)

	require.True(t, feed.Reorder(1, 2))
	require.Equal(t, []int64{header.Identity, 12, 10}, identities(source.Records(testList)))
	require.Equal(t, []int64{header.Identity, 11, 12, 10, 13}, identities(feed.all))
}

func TestFeedReorderRefusedWhilePending(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 3, 1, quietLogger())

	feed.Step()
	require.True(t, source.Pending(testList))
	require.False(t, feed.Reorder(1, 2))
}

func TestFeedRunStopsWithContext(t *testing.T) {
	source := diff.NewMemorySource()
	feed := NewFeed(source, testList, 3, 1, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, feed.Run(ctx, time.Hour))
}

func TestKeyMapFiltering(t *testing.T) {
	listKeys := ultralist.DefaultListKeyMap()
	keys := newKeyMap(&listKeys)
	require.Len(t, keys.ShortHelp(), len(listKeys.ShortHelp())+3)

	keys.setFiltering(true)
	short := keys.ShortHelp()
	require.Len(t, short, 2)
	require.Equal(t, "enter", short[0].Help().Key)
	require.False(t, keys.Quit.Enabled())

	keys.setFiltering(false)
	require.True(t, keys.Quit.Enabled())
	require.False(t, keys.Clear.Enabled())
}
