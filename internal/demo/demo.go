// Package demo runs an interactive list fed by a background producer.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ayn2op/ultralist"
	"github.com/ayn2op/ultralist/config"
	"github.com/ayn2op/ultralist/diff"
	"github.com/ayn2op/ultralist/help"
	"github.com/ayn2op/ultralist/layers"
)

// Options configures Run.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	// Items seeded before the producer starts.
	Items int
	// Delay between two producer changes.
	Interval time.Duration
	Seed     uint64
	// DisableMouse keeps the terminal's own mouse selection working. Rows
	// can still be reordered from the keyboard.
	DisableMouse bool
}

// App is the assembled demo, ready to run.
type App struct {
	app  *ultralist.Application
	feed *Feed
	list *ultralist.RecyclerList

	interval time.Duration
	logger   *slog.Logger
}

// New builds the demo application without touching the terminal.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	palette, err := cfg.Theme.Palette()
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	ultralist.Styles = ultralist.ThemeFromPalette(palette)

	source := diff.NewMemorySource()
	list := ultralist.NewRecyclerList(source,
		ultralist.WithConfig(cfg),
		ultralist.WithLogger(logger),
	)
	list.RegisterCell(itemType, func(string) ultralist.Cell {
		return ultralist.NewTextCell("title", "detail")
	})
	list.RegisterCell(headerType, func(string) ultralist.Cell {
		return ultralist.NewTextCell("title")
	})

	feed := NewFeed(source, list.ListID(), opts.Items, opts.Seed, logger)
	list.Reload().SetCursor(min(1, list.Len()-1))
	list.SetLongPressFunc(feed.Movable).SetReorderFunc(feed.Reorder)

	app := ultralist.NewApplication().
		SetLogger(logger).
		SetFrameInterval(cfg.List.FrameInterval()).
		EnableMouse(!opts.DisableMouse)
	source.SetNotify(list.CommitFunc(app))

	keys := newKeyMap(list.KeyMap())
	styles := help.PaletteStyles(palette)
	v := newView(list, feed, keys, styles)
	m := newModal(keys, styles)

	root := layers.New().
		Add(v, layers.WithName("list"), layers.WithResize(true)).
		Add(m, layers.WithName("help"), layers.WithResize(true), layers.WithVisible(false), layers.WithOverlay())
	v.toggleHelp = func() { root.Toggle("help") }
	m.close = func() { root.Hide("help") }

	list.SetCommittedFunc(func(ops []diff.Op) {
		logger.Debug("committed", slog.Int("ops", len(ops)), slog.Int("rows", list.Len()))
		v.updateTitle()
		feed.Retry()
	})
	list.SetDroppedFunc(func(err error) {
		list.Reload()
		v.updateTitle()
		feed.Retry()
	})

	app.SetRoot(root)
	return &App{
		app:      app,
		feed:     feed,
		list:     list,
		interval: opts.Interval,
		logger:   logger,
	}, nil
}

// Run shows the list until the user quits or ctx is done. The producer runs
// alongside and stops with the application.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.app.Run()
	})
	g.Go(func() error {
		<-ctx.Done()
		a.app.Stop()
		return nil
	})
	if a.interval > 0 {
		g.Go(func() error {
			return a.feed.Run(ctx, a.interval)
		})
	}

	err := g.Wait()
	a.list.Unmount()
	a.logger.Info("demo stopped", slog.Any("err", err))
	return err
}
