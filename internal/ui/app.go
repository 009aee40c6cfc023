package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/five82/flipbook/internal/asset"
	"github.com/five82/flipbook/internal/book"
	"github.com/five82/flipbook/internal/config"
	"github.com/five82/flipbook/internal/layout"
	"github.com/five82/flipbook/internal/render"
	"github.com/five82/flipbook/internal/viewer"
)

// Options configures the UI.
type Options struct {
	Context       context.Context
	Book          *book.Book
	Store         *asset.Store
	TurnThreshold float64

	// OnSpreadChange is forwarded from the viewer after every settled
	// animation and at startup.
	OnSpreadChange func(index int)

	FPS       int
	ThemeName string
	PrefsPath string
	LogPath   string
	Logger    *zap.Logger

	// Now overrides the clock used to timestamp pointer events.
	Now func() time.Time
}

// inbox collects viewer callbacks fired during one Update. Bubble Tea
// copies the Model on every message, so the callbacks close over this
// pointer and the Model drains it after each engine call.
type inbox struct {
	activated []int
	dismissed bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	engine    *viewer.Engine
	store     *asset.Store
	painter   *render.Painter
	logger    *zap.Logger
	keys      keyMap
	prefsPath string
	logPath   string
	frameTick time.Duration
	now       func() time.Time
	events    *inbox

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Reader state
	state   viewer.State
	pointer pointer

	// Canvas
	dc     *gg.Context
	canvas string
	drawn  frameKey

	// Overlays
	showHelp bool
	modal    Modal
}

type pointer struct {
	x, y float64
	seen bool
}

// frameKey identifies what the cached canvas shows.
type frameKey struct {
	state   viewer.State
	version uint64
	theme   string
	cols    int
	rows    int
}

// New creates the Bubble Tea model and its viewer engine.
func New(opts Options) (Model, error) {
	if opts.Store == nil {
		return Model{}, errors.New("ui requires an asset store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	events := &inbox{}
	engine, err := viewer.New(viewer.Options{
		Book:           opts.Book,
		Provider:       opts.Store,
		TurnThreshold:  opts.TurnThreshold,
		OnSpreadChange: opts.OnSpreadChange,
		OnActivate:     func(page int) { events.activated = append(events.activated, page) },
		OnDismiss:      func() { events.dismissed = true },
		Logger:         logger,
	})
	if err != nil {
		return Model{}, err
	}

	painter, err := render.NewPainter()
	if err != nil {
		return Model{}, err
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = config.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = config.DefaultPrefsPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		engine:    engine,
		store:     opts.Store,
		painter:   painter,
		logger:    logger,
		keys:      DefaultKeyMap(),
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		frameTick: time.Second / time.Duration(fps),
		now:       now,
		events:    events,
		theme:     GetTheme(themeName),
		state:     engine.Start(),
		dc:        gg.NewContext(1, 2),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.frameTick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.repaint()
		return m, nil

	case frameMsg:
		m.state = m.engine.Advance(m.state)
		m.drain()
		m.repaint()
		return m, frameCmd(m.frameTick)
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// renderMain stacks the header, the page canvas and the status bar.
func (m Model) renderMain() string {
	return m.renderHeader() + "\n" + m.canvas + "\n" + m.renderStatusBar()
}

// layout returns the page layout for the current canvas.
func (m Model) layout() layout.Layout {
	w, h := pixelSize(canvasSize(m.width, m.height))
	return layout.Compute(float64(w), float64(h))
}

// repaint rasterizes the current frame when anything it depends on changed.
func (m *Model) repaint() {
	if !m.ready {
		return
	}
	cols, rows := canvasSize(m.width, m.height)
	key := frameKey{state: m.state, version: m.store.Version(), theme: m.theme.Name, cols: cols, rows: rows}
	if key == m.drawn && m.canvas != "" {
		return
	}

	if err := m.dc.Resize(pixelSize(cols, rows)); err != nil {
		m.logger.Warn("resize canvas failed", zap.Error(err))
		return
	}
	m.painter.Background = parseHex(m.theme.Canvas)
	if err := m.painter.Paint(m.dc, render.Compose(m.engine.Frame(m.state, m.layout()))); err != nil {
		m.logger.Warn("paint frame failed", zap.Error(err), zap.Int("spread", m.state.Current))
	}
	m.canvas = blit(m.dc.Image(), cols, rows)
	m.drawn = key
}

// drain applies viewer callbacks collected since the last engine call.
func (m *Model) drain() {
	if m.events.dismissed {
		m.events.dismissed = false
		if _, ok := m.modal.(*zoomModal); ok {
			m.modal = nil
		}
	}
	if n := len(m.events.activated); n > 0 {
		page := m.events.activated[n-1]
		m.events.activated = m.events.activated[:0]
		m.modal = newZoomModal(page, m.store.Page(page), m.painter)
	}
}

// Messages

type frameMsg time.Time

// Commands

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		// Interrupted by a signal.
		return nil
	}
	return err
}
