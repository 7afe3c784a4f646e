package binder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ayn2op/ultralist/diff"
)

func newSource(n int) *diff.MemorySource {
	records := make([]diff.Record, n)
	for i := range records {
		records[i] = diff.Record{
			Type:     "row",
			Identity: int64(i),
			Fields:   map[string]string{"title": fmt.Sprint("item ", i), "subtitle": fmt.Sprint("sub ", i)},
		}
	}
	source := diff.NewMemorySource()
	source.Put(1, records)
	return source
}

func newBinder(source *diff.MemorySource) *Binder {
	lookup := func(listID int) (diff.Source, bool) {
		if listID != 1 || source == nil {
			return nil, false
		}
		return source, true
	}
	return New(lookup, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestBindPushesFieldsAndQueuesRecycle(t *testing.T) {
	b := newBinder(newSource(5))

	var titles []string
	var recycled [][2]int
	b.Subscribe(7, "title", func(value []byte) { titles = append(titles, string(value)) })
	b.OnRecycle(7, func(position, previous int) { recycled = append(recycled, [2]int{position, previous}) })

	b.Bind(7, 1, 2)
	require.Equal(t, []string{"item 2"}, titles)
	require.Empty(t, recycled)

	b.Bind(7, 1, 4)
	require.Equal(t, []string{"item 2", "item 4"}, titles)

	// Only the latest binding of a row is delivered.
	require.Equal(t, 1, b.Flush())
	require.Equal(t, [][2]int{{4, 2}}, recycled)
	require.Zero(t, b.Flush())

	binding, ok := b.Binding(7)
	require.True(t, ok)
	require.Equal(t, Binding{ListID: 1, Position: 4}, binding)
}

func TestRebindSkipsRecycle(t *testing.T) {
	b := newBinder(newSource(3))

	var values []string
	var recycled int
	b.Subscribe(1, "subtitle", func(value []byte) { values = append(values, string(value)) })
	b.OnRecycle(1, func(int, int) { recycled++ })

	b.Bind(1, 1, 0)
	b.Flush()
	require.NoError(t, b.Rebind(1))
	require.Zero(t, b.Flush())

	require.Equal(t, []string{"sub 0", "sub 0"}, values)
	require.Equal(t, 1, recycled)
}

func TestMissingBindingIsSkipped(t *testing.T) {
	b := newBinder(newSource(2))

	var called bool
	b.Subscribe(1, "title", func([]byte) { called = true })
	b.OnRecycle(1, func(int, int) { called = true })

	// Position past the end of the list.
	b.Bind(1, 1, 5)
	require.Zero(t, b.Flush())

	// Unknown list.
	b.Bind(1, 9, 0)
	require.Zero(t, b.Flush())
	require.False(t, called)

	err := b.Rebind(1)
	require.ErrorIs(t, err, ErrMissingBinding)
	require.True(t, errors.Is(b.Rebind(42), ErrMissingBinding))
}

func TestUnbindDropsQueuedNotifications(t *testing.T) {
	b := newBinder(newSource(2))

	var recycled int
	b.OnRecycle(3, func(int, int) { recycled++ })
	b.Bind(3, 1, 1)
	b.Unbind(3)

	require.Zero(t, b.Flush())
	require.Zero(t, recycled)
	_, ok := b.Binding(3)
	require.False(t, ok)
}
