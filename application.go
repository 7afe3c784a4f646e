package ultralist

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"
)

const (
	updatesQueueSize     = 100
	resizePause          = 50 * time.Millisecond
	defaultFrameInterval = 16 * time.Millisecond
)

type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application owns the terminal and runs the event loop every primitive
// lives on. Keys and pastes go to the root primitive, which routes them to
// its focused child. Work from other goroutines is serialized through
// QueueUpdate, so a list committing a snapshot never races the renderer.
//
//	app := ultralist.NewApplication().SetRoot(list)
//	source.SetNotify(list.CommitFunc(app))
//	if err := app.Run(); err != nil {
//		return err
//	}
//
// Frames are drawn into an off-screen buffer and only changed cells reach the
// terminal.
type Application struct {
	sync.RWMutex

	screen tcell.Screen
	root   Primitive
	focus  Primitive

	events  chan tcell.Event
	updates chan queuedUpdate

	mouse       mouseState
	enableMouse bool

	// paste collects key events between the start and end of a bracketed
	// paste. It is nil outside of one.
	paste *strings.Builder

	lastResize  time.Time
	resizeTimer *time.Timer
	forceRedraw bool
	buffer      *captureScreen

	// Per-frame callbacks registered through AnimateCommand. The ticker only
	// runs while at least one is registered.
	ticks         []func(now time.Time) bool
	frameTicker   *time.Ticker
	frameInterval time.Duration

	logger *slog.Logger
}

func NewApplication() *Application {
	return &Application{
		updates:       make(chan queuedUpdate, updatesQueueSize),
		frameInterval: defaultFrameInterval,
		enableMouse:   true,
		logger:        slog.Default(),
	}
}

func (a *Application) SetLogger(logger *slog.Logger) *Application {
	a.Lock()
	defer a.Unlock()
	if logger == nil {
		logger = slog.Default()
	}
	a.logger = logger
	return a
}

// SetFrameInterval sets the time between two animation frames. Non-positive
// intervals are ignored.
func (a *Application) SetFrameInterval(interval time.Duration) *Application {
	a.Lock()
	defer a.Unlock()
	if interval > 0 {
		a.frameInterval = interval
	}
	return a
}

// EnableMouse sets whether mouse events are reported. It takes effect when
// the application starts.
func (a *Application) EnableMouse(enable bool) *Application {
	a.Lock()
	defer a.Unlock()
	a.enableMouse = enable
	return a
}

// Run initializes the screen and processes events until Stop is called or
// the terminal reports an error, which is returned.
func (a *Application) Run() error {
	a.Lock()
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err := screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}
	if a.enableMouse {
		a.screen.EnableMouse()
	}
	screen := a.screen
	a.Unlock()

	// A panic leaves the terminal in raw mode unless the screen is finalized.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()
	defer a.stopFrames()

	a.draw()

	a.Lock()
	a.events = screen.EventQ()
	a.Unlock()

	for {
		// A nil channel blocks, so no frames fire without an animation.
		var frames <-chan time.Time
		if a.frameTicker != nil {
			frames = a.frameTicker.C
		}

		select {
		case event := <-a.events:
			if event == nil {
				return nil
			}
			if err := a.handleEvent(event); err != nil {
				a.logger.Error("terminal error", slog.Any("err", err))
				a.Stop()
				return err
			}
		case now := <-frames:
			if a.tick(now) {
				a.draw()
			}
		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		}
	}
}

func (a *Application) handleEvent(event tcell.Event) error {
	switch event := event.(type) {
	case *tcell.EventKey:
		if a.paste != nil {
			a.collectPaste(event)
			return nil
		}
		if root := a.focusedRoot(); root != nil && a.executeCommand(root.InputHandler(event)) {
			a.draw()
		}
	case *tcell.EventPaste:
		switch {
		case event.Start():
			a.paste = &strings.Builder{}
		case event.End() && a.paste != nil:
			text := a.paste.String()
			a.paste = nil
			if root := a.focusedRoot(); root != nil && text != "" && a.executeCommand(root.PasteHandler(text)) {
				a.draw()
			}
		}
	case *tcell.EventResize:
		a.handleResize(event)
	case *tcell.EventMouse:
		if a.handleMouse(event) {
			a.draw()
		}
	case *tcell.EventError:
		return event
	}
	return nil
}

func (a *Application) collectPaste(event *tcell.EventKey) {
	switch event.Key() {
	case tcell.KeyRune:
		a.paste.WriteString(event.Str())
	case tcell.KeyEnter:
		a.paste.WriteByte('\n')
	case tcell.KeyTab:
		a.paste.WriteByte('\t')
	}
}

// handleResize redraws from scratch. Bursts of resize events are followed
// by one more redraw once they settle.
func (a *Application) handleResize(event *tcell.EventResize) {
	a.Lock()
	a.forceRedraw = true
	events := a.events
	a.Unlock()

	if time.Since(a.lastResize) < resizePause {
		if a.resizeTimer != nil {
			a.resizeTimer.Stop()
		}
		a.resizeTimer = time.AfterFunc(resizePause, func() {
			events <- event
		})
	}
	a.lastResize = time.Now()
	a.draw()
}

// focusedRoot returns the root primitive if it holds the focus.
func (a *Application) focusedRoot() Primitive {
	a.RLock()
	root := a.root
	a.RUnlock()
	if root == nil || !root.HasFocus() {
		return nil
	}
	return root
}

// animate registers a per-frame callback and starts the frame ticker.
func (a *Application) animate(tick func(now time.Time) bool) {
	if tick == nil {
		return
	}
	a.ticks = append(a.ticks, tick)
	if a.frameTicker == nil {
		a.RLock()
		interval := a.frameInterval
		a.RUnlock()
		a.frameTicker = time.NewTicker(interval)
	}
}

// tick runs one frame of every registered callback and drops the finished
// ones. It reports whether any callback ran.
func (a *Application) tick(now time.Time) bool {
	if len(a.ticks) == 0 {
		a.stopFrames()
		return false
	}
	ticks := a.ticks
	a.ticks = nil
	for _, tick := range ticks {
		if tick(now) {
			a.ticks = append(a.ticks, tick)
		}
	}
	if len(a.ticks) == 0 {
		a.stopFrames()
	}
	return true
}

func (a *Application) stopFrames() {
	if a.frameTicker != nil {
		a.frameTicker.Stop()
		a.frameTicker = nil
	}
}

// Stop finalizes the screen, causing Run to return. Calling it again, or
// before Run, does nothing.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		return
	}
	a.screen.Fini()
	a.screen = nil
}

func (a *Application) draw() {
	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	a.forceRedraw = false
	a.Unlock()

	if screen == nil || root == nil {
		return
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)

	if a.buffer == nil || a.buffer.Screen != screen {
		a.buffer = newCaptureScreen(screen, width, height)
	}
	if forceRedraw {
		screen.Clear()
		a.buffer.invalidate()
	}
	a.buffer.begin(width, height)
	root.Draw(a.buffer)
	a.buffer.flush()
}

// SetRoot sets the primitive filling the screen and gives it the focus.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus blurs the focused primitive and focuses p, following any
// delegation p makes to one of its children.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()

	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate runs f on the event loop and returns after it has run. It
// must not be called from the event loop itself.
func (a *Application) QueueUpdate(f func()) *Application {
	done := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: done}
	<-done
	return a
}

// QueueUpdateDraw works like QueueUpdate and redraws after f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	return a.QueueUpdate(func() {
		f()
		a.draw()
	})
}

// executeCommand performs cmd and reports whether the screen needs a redraw.
func (a *Application) executeCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, item := range c {
			if a.executeCommand(item) {
				redraw = true
			}
		}
		return redraw
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		changed := a.GetFocus() != c.Target
		a.SetFocus(c.Target)
		return changed
	case AnimateCommand:
		a.animate(c.Tick)
		return true
	}
	return false
}
