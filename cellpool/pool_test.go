package cellpool

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type template struct {
	id int
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type delivery struct {
	request  InflationRequest
	template *template
}

func TestRequestQueuesInOrder(t *testing.T) {
	var deliveries []delivery
	var grown []int
	pool := NewPool("row",
		func(cellType string, count int) { grown = append(grown, count) },
		func(request InflationRequest, tmpl *template) {
			deliveries = append(deliveries, delivery{request, tmpl})
		},
		quietLogger(),
	)
	only := &template{id: 1}
	pool.Add(only)

	got, ok := pool.Request(10, 0, 1)
	require.True(t, ok)
	require.Same(t, only, got)

	_, ok = pool.Request(11, 1, 1)
	require.False(t, ok)
	_, ok = pool.Request(12, 2, 1)
	require.False(t, ok)
	_, ok = pool.Request(13, 3, 1)
	require.False(t, ok)
	require.Len(t, pool.Pending(), 3)

	// One growth request per starvation episode.
	require.Equal(t, []int{1}, grown)
	require.Equal(t, 2, pool.Capacity())

	// The returned template goes to the oldest request.
	require.True(t, pool.Return(10))
	require.Len(t, deliveries, 1)
	require.Equal(t, InflationRequest{Row: 11, Position: 1, ListID: 1}, deliveries[0].request)
	require.Same(t, only, deliveries[0].template)
	require.Equal(t, []InflationRequest{
		{Row: 12, Position: 2, ListID: 1},
		{Row: 13, Position: 3, ListID: 1},
	}, pool.Pending())

	owner, ok := pool.Owner(only)
	require.True(t, ok)
	require.Equal(t, 11, owner)
	_, ok = pool.Template(10)
	require.False(t, ok)

	fresh := &template{id: 2}
	pool.Add(fresh)
	require.Len(t, deliveries, 2)
	require.Equal(t, 12, deliveries[1].request.Row)
	require.Equal(t, []InflationRequest{{Row: 13, Position: 3, ListID: 1}}, pool.Pending())

	pool.Add(&template{id: 3})
	require.Len(t, deliveries, 3)
	require.Equal(t, 13, deliveries[2].request.Row)
	require.Empty(t, pool.Pending())
	require.Zero(t, pool.Free())
	require.Equal(t, 3, pool.Lent())
}

func TestRequestSameRowKeepsTemplate(t *testing.T) {
	pool := NewPool[*template]("row", nil, nil, quietLogger())
	pool.Add(&template{id: 1})
	pool.Add(&template{id: 2})

	first, ok := pool.Request(5, 0, 1)
	require.True(t, ok)
	again, ok := pool.Request(5, 3, 1)
	require.True(t, ok)
	require.Same(t, first, again)
	require.Equal(t, 1, pool.Free())
}

func TestCancelDropsPendingRequest(t *testing.T) {
	pool := NewPool[*template]("row", nil, nil, quietLogger())

	_, ok := pool.Request(1, 0, 1)
	require.False(t, ok)
	_, ok = pool.Request(2, 1, 1)
	require.False(t, ok)

	// A second request for the same row updates its position.
	_, ok = pool.Request(1, 4, 1)
	require.False(t, ok)
	require.Equal(t, 4, pool.Pending()[0].Position)

	require.False(t, pool.Return(1))
	require.Equal(t, []InflationRequest{{Row: 2, Position: 1, ListID: 1}}, pool.Pending())
	require.False(t, pool.Cancel(1))
}

func TestCapacityDoublesAndNeverShrinks(t *testing.T) {
	var grown []int
	pool := NewPool[*template]("row", func(_ string, count int) { grown = append(grown, count) }, nil, quietLogger())
	for i := range 4 {
		pool.Add(&template{id: i})
	}
	for row := range 4 {
		_, ok := pool.Request(row, row, 1)
		require.True(t, ok)
	}

	_, ok := pool.Request(4, 4, 1)
	require.False(t, ok)
	_, ok = pool.Request(5, 5, 1)
	require.False(t, ok)
	require.Equal(t, []int{4}, grown)
	require.Equal(t, 8, pool.Capacity())

	for i := range 4 {
		pool.Add(&template{id: 10 + i})
	}
	for row := range 6 {
		pool.Return(row)
	}
	require.Equal(t, 8, pool.Free())
	require.Equal(t, 8, pool.Capacity())

	// A new episode doubles again.
	for row := range 9 {
		pool.Request(100+row, row, 1)
	}
	require.Equal(t, []int{4, 8}, grown)
	require.Equal(t, 16, pool.Capacity())
}

func TestSetGrowsOnNextFrame(t *testing.T) {
	next := 0
	var delivered []int
	set := NewSet(1, func(request InflationRequest, _ *template) {
		delivered = append(delivered, request.Row)
	}, quietLogger())
	set.RegisterFactory("row", func(string) *template {
		next++
		return &template{id: next}
	})
	require.Equal(t, 1, next)

	_, ok := set.Request("row", 1, 0, 1)
	require.True(t, ok)
	_, ok = set.Request("row", 2, 1, 1)
	require.False(t, ok)
	require.True(t, set.NeedsGrowth())
	require.Equal(t, 1, next)

	require.Equal(t, 1, set.Grow())
	require.False(t, set.NeedsGrowth())
	require.Equal(t, []int{2}, delivered)

	_, ok = set.Request("missing", 3, 2, 1)
	require.False(t, ok)
	require.False(t, set.Return("missing", 3))
}
