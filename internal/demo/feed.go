package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ayn2op/ultralist/diff"
)

const (
	headerType = "header"
	itemType   = "item"
)

var words = []string{
	"water", "plants", "invoice", "release", "notes", "groceries", "backup",
	"review", "dentist", "taxes", "laundry", "garage", "flight", "library",
	"meetup", "refactor", "benchmark", "deploy", "rename", "triage",
}

// Feed owns the records of the demo list. It keeps every record in order,
// filters them with a fuzzy query and stages the difference between the
// filtered snapshot and the one last staged on the source.
type Feed struct {
	mu     sync.Mutex
	source *diff.MemorySource
	listID int
	logger *slog.Logger
	rng    *rand.Rand

	all     []diff.Record
	visible []diff.Record
	query   string
	// Set when a restage was refused because the source still held a
	// pending snapshot.
	dirty  bool
	nextID int64
}

// NewFeed seeds listID of source with n records below a header.
func NewFeed(source *diff.MemorySource, listID int, n int, seed uint64, logger *slog.Logger) *Feed {
	f := &Feed{
		source: source,
		listID: listID,
		logger: logger,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		nextID: 1,
	}
	f.all = append(f.all, diff.Record{
		Type:     headerType,
		Identity: f.id(),
		Header:   true,
		Fields:   map[string]string{"title": "Tasks"},
	})
	for range n {
		f.all = append(f.all, f.newRecord())
	}
	f.visible = slices.Clone(f.all)
	source.Put(listID, f.visible)
	return f
}

func (f *Feed) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *Feed) newRecord() diff.Record {
	id := f.id()
	title := fmt.Sprintf("%s %s", words[f.rng.IntN(len(words))], words[f.rng.IntN(len(words))])
	detail := fmt.Sprintf("#%d added %s", id, time.Now().Format(time.Kitchen))
	return diff.Record{
		Type:     itemType,
		Identity: id,
		Fields:   map[string]string{"title": title, "detail": detail},
	}
}

// Query returns the current filter.
func (f *Feed) Query() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// SetQuery filters the list down to the items whose title fuzzy-matches
// query. The header always stays.
func (f *Feed) SetQuery(query string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	f.restage()
}

// Step inserts or removes one random item.
func (f *Feed) Step() {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := len(f.all) - 1
	if items > 3 && f.rng.IntN(3) == 0 {
		at := 1 + f.rng.IntN(items)
		f.logger.Debug("feed remove", slog.Int64("identity", f.all[at].Identity))
		f.all = slices.Delete(f.all, at, at+1)
	} else {
		at := 1 + f.rng.IntN(items+1)
		record := f.newRecord()
		f.logger.Debug("feed insert", slog.Int64("identity", record.Identity))
		f.all = slices.Insert(f.all, at, record)
	}
	f.restage()
}

// Run calls Step every interval until ctx is done.
func (f *Feed) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			f.Step()
		}
	}
}

// Retry stages the changes held back by an earlier pending snapshot.
func (f *Feed) Retry() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirty {
		f.restage()
	}
}

func (f *Feed) restage() {
	next := f.filter()
	changes := Changes(f.visible, next)
	if len(changes.Added) == 0 && len(changes.Removed) == 0 {
		f.dirty = false
		return
	}
	err := f.source.Stage(f.listID, next, changes)
	if errors.Is(err, diff.ErrPendingCommit) {
		f.dirty = true
		return
	}
	if err != nil {
		f.logger.Error("stage failed", slog.Any("err", err))
		return
	}
	f.dirty = false
	f.visible = next
}

func (f *Feed) filter() []diff.Record {
	if f.query == "" {
		return slices.Clone(f.all)
	}
	var out []diff.Record
	for _, record := range f.all {
		if record.Header || fuzzy.MatchFold(f.query, strings.ToLower(record.Fields["title"])) {
			out = append(out, record)
		}
	}
	return out
}

// Movable reports whether the row at position may be picked up.
func (f *Feed) Movable(position int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return position >= 0 && position < len(f.visible) && !f.visible[position].Header
}

// Reorder moves a visible item and keeps the full order in step with it. A
// move onto a header, or one racing a staged snapshot, is refused.
func (f *Feed) Reorder(from, to int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.visible)
	if from < 0 || from >= n || to < 0 || to >= n || f.visible[to].Header || f.source.Pending(f.listID) {
		return false
	}
	if err := f.source.MoveCommitted(f.listID, from, to); err != nil {
		f.logger.Warn("reorder refused", slog.Any("err", err))
		return false
	}

	record := f.visible[from]
	f.visible = slices.Delete(f.visible, from, from+1)
	f.visible = slices.Insert(f.visible, to, record)

	// Place the record next to its new visible neighbour in the full order.
	at := slices.IndexFunc(f.all, func(r diff.Record) bool { return r.Identity == record.Identity })
	f.all = slices.Delete(f.all, at, at+1)
	if to+1 < len(f.visible) {
		next := f.visible[to+1].Identity
		at = slices.IndexFunc(f.all, func(r diff.Record) bool { return r.Identity == next })
	} else {
		prev := f.visible[to-1].Identity
		at = slices.IndexFunc(f.all, func(r diff.Record) bool { return r.Identity == prev }) + 1
	}
	f.all = slices.Insert(f.all, at, record)
	return true
}

// Changes returns the removals and insertions turning prev into next. Both
// snapshots must keep the records they share in the same relative order.
func Changes(prev, next []diff.Record) diff.Changes {
	inNext := make(map[int64]struct{}, len(next))
	for _, r := range next {
		inNext[r.Identity] = struct{}{}
	}
	inPrev := make(map[int64]struct{}, len(prev))
	for _, r := range prev {
		inPrev[r.Identity] = struct{}{}
	}

	var changes diff.Changes
	for i, r := range prev {
		if _, ok := inNext[r.Identity]; !ok {
			changes.Removed = append(changes.Removed, i)
		}
	}
	for i, r := range next {
		if _, ok := inPrev[r.Identity]; !ok {
			changes.Added = append(changes.Added, i)
		}
	}
	return changes
}
