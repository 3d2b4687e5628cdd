// Package tui is the terminal host: a bubbletea program that drives the
// timeline widget with the terminal as its surface, one column per pixel.
// Scrolling keys push offsets straight into the widget, so the element pool
// is exercised exactly as it is by the web host.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/locale"
	"github.com/tltv/timeline-flow/internal/timeline"
)

type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	PageLeft  key.Binding
	PageRight key.Binding
	Home      key.Binding
	End       key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/←", "scroll left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/→", "scroll right")),
	PageLeft:  key.NewBinding(key.WithKeys("pgup", "shift+left"), key.WithHelp("pgup", "page left")),
	PageRight: key.NewBinding(key.WithKeys("pgdown", "shift+right"), key.WithHelp("pgdn", "page right")),
	Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "range start")),
	End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "range end")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.PageLeft, k.PageRight},
		{k.Home, k.End, k.Help, k.Quit},
	}
}

// gutterWidth is the label column to the left of each timeline row.
const gutterWidth = 7

// Model is the bubbletea model for the timeline browser.
type Model struct {
	cfg    config.Config
	bundle *locale.Bundle
	res    timeline.Resolution
	start  time.Time
	end    time.Time

	surface *cellSurface
	widget  *timeline.Widget
	log     *slog.Logger

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int
	offset float64
	ready  bool
}

// New builds the model from a loaded configuration. The timeline is tiled on
// the first window-size message, once the viewport is known.
func New(cfg *config.Config, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	bundle, err := cfg.Bundle()
	if err != nil {
		return nil, err
	}
	res, err := cfg.ParsedResolution()
	if err != nil {
		return nil, err
	}
	wcfg, err := cfg.WidgetConfig()
	if err != nil {
		return nil, err
	}
	// One terminal cell is one pixel. The configured minimum unit width is
	// web-scaled, so the pool bound uses single-column units here.
	wcfg.SizingMode = timeline.SizingFixedPixel
	wcfg.MinUnitWidthPx = 1

	start, end := cfg.RangeIn(bundle.Location())
	surface := &cellSurface{}

	return &Model{
		cfg:     *cfg,
		bundle:  bundle,
		res:     res,
		start:   start,
		end:     end,
		surface: surface,
		widget:  timeline.NewWidget(wcfg, surface, nil, logger, timeline.ImmediateScheduler{}),
		log:     logger,
		keys:    keys,
		help:    help.New(),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.surface.resetPool()
		m.widget.Resize(m.contentWidth())
		if !m.ready {
			m.surface.resetPool()
			m.widget.Render(m.res, m.start, m.end, m.bundle)
			m.ready = true
		}
		m.setOffset(m.offset)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.widget.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		case key.Matches(msg, m.keys.Left):
			m.setOffset(m.offset - m.blockStep())
		case key.Matches(msg, m.keys.Right):
			m.setOffset(m.offset + m.blockStep())
		case key.Matches(msg, m.keys.PageLeft):
			m.setOffset(m.offset - float64(m.contentWidth()))
		case key.Matches(msg, m.keys.PageRight):
			m.setOffset(m.offset + float64(m.contentWidth()))
		case key.Matches(msg, m.keys.Home):
			m.setOffset(0)
		case key.Matches(msg, m.keys.End):
			m.setOffset(m.maxOffset())
		}
	}
	return m, nil
}

// contentWidth is the viewport the widget renders into: the terminal minus
// the row-label gutter.
func (m *Model) contentWidth() int {
	w := m.width - gutterWidth
	if w < 1 {
		w = 1
	}
	return w
}

// blockStep is the scroll distance of one resolution block in columns.
func (m *Model) blockStep() float64 {
	t := m.widget.Tiling()
	if t == nil || t.Empty() {
		return 1
	}
	unit := m.widget.RenderState().UnitWidth(t)
	if m.res == timeline.ResolutionWeek {
		return unit * 7
	}
	return unit
}

func (m *Model) maxOffset() float64 {
	t := m.widget.Tiling()
	if t == nil || t.Empty() {
		return 0
	}
	max := m.widget.RenderState().RenderedWidth(t) - float64(m.contentWidth())
	if max < 0 {
		max = 0
	}
	return max
}

// setOffset clamps and applies a scroll offset. The immediate scheduler makes
// the pool refill synchronous, so View always sees a current pool.
func (m *Model) setOffset(px float64) {
	if px < 0 {
		px = 0
	}
	if max := m.maxOffset(); px > max {
		px = max
	}
	m.offset = px
	m.widget.SetScrollOffset(px)
}
