package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tltv/timeline-flow/internal/timeline"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	gutterStyle = lipgloss.NewStyle().Faint(true).Width(gutterWidth)

	evenStyle = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	oddStyle  = lipgloss.NewStyle().Background(lipgloss.Color("238"))

	weekendColor = lipgloss.Color("173")
	shortColor   = lipgloss.Color("103")
)

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready || m.width == 0 {
		return "loading timeline...\n"
	}
	t := m.widget.Tiling()
	if t == nil || t.Empty() {
		return "nothing to render for the configured range\n\npress q to quit\n"
	}

	var lines []string
	lines = append(lines, m.titleLine(), "")

	if m.cfg.YearRow {
		lines = append(lines, m.rowLine("year", runElements(t.Year.Runs), 0))
	}
	if m.cfg.MonthRow {
		lines = append(lines, m.rowLine("month", runElements(t.Month.Runs), 0))
	}
	if m.res == timeline.ResolutionHour {
		lines = append(lines, m.rowLine("day", runElements(t.Day.Runs), 0))
	}
	lines = append(lines, m.blocksLine(t))

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	for i := len(lines); i < m.height-3; i++ {
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine(t))
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) titleLine() string {
	return titleStyle.Render("timeline-flow") + "  " + dimStyle.Render(fmt.Sprintf(
		"%s | %s .. %s | %s",
		m.res,
		m.bundle.FormatDate(m.start, "yyyy-MM-dd"),
		m.bundle.FormatDate(m.end, "yyyy-MM-dd"),
		m.bundle.TimeZone(),
	))
}

func (m *Model) statusLine(t *timeline.Tiling) string {
	rendered := m.widget.RenderState().RenderedWidth(t)
	return dimStyle.Render(fmt.Sprintf(
		"%s | col %d/%d | %d units / %d blocks | pool %d",
		m.bundle.FormatDate(m.widget.DateForPosition(m.offset), "yyyy-MM-dd HH:mm"),
		int(m.offset), int(rendered),
		t.Result.LeafCount, t.Result.ResolutionBlockCount,
		m.widget.Renderer().PoolSize(),
	))
}

// rowLine renders one gutter-labeled row, windowed to the visible columns.
func (m *Model) rowLine(name string, cells []*cellElement, startX int) string {
	return gutterStyle.Render(name) + m.renderWindow(cells, startX)
}

// blocksLine renders the pool row. The pool covers only the blocks around the
// viewport, so its left edge is the rendered position of the first pooled
// block rather than column zero.
func (m *Model) blocksLine(t *timeline.Tiling) string {
	first := m.widget.Renderer().FirstBlock()
	startLeaf, _ := t.BlockSpan(first)
	unit := m.widget.RenderState().UnitWidth(t)
	return m.rowLine(m.res.String(), m.surface.pool, int(unit*float64(startLeaf)))
}

// renderWindow lays cells out left to right from startX and slices out the
// columns visible at the current scroll offset, styling each visible piece.
func (m *Model) renderWindow(cells []*cellElement, startX int) string {
	winStart := int(m.offset)
	winEnd := winStart + m.contentWidth()

	var b strings.Builder
	filled := winStart
	if startX > filled {
		pad := startX
		if pad > winEnd {
			pad = winEnd
		}
		b.WriteString(strings.Repeat(" ", pad-filled))
		filled = pad
	}

	x := startX
	for _, e := range cells {
		span := e.span()
		cellStart, cellEnd := x, x+span
		x = cellEnd
		if cellEnd <= winStart {
			continue
		}
		if cellStart >= winEnd {
			break
		}
		lo, hi := cellStart, cellEnd
		if lo < winStart {
			lo = winStart
		}
		if hi > winEnd {
			hi = winEnd
		}
		text := cellText(e.label, span)[lo-cellStart : hi-cellStart]
		b.WriteString(styleFor(e).Render(string(text)))
		filled = hi
	}
	if filled < winEnd {
		b.WriteString(strings.Repeat(" ", winEnd-filled))
	}
	return b.String()
}

// cellText clips or pads a label to exactly span columns.
func cellText(label string, span int) []rune {
	out := make([]rune, span)
	for i := range out {
		out[i] = ' '
	}
	copy(out, []rune(label))
	return out
}

func styleFor(e *cellElement) lipgloss.Style {
	style := oddStyle
	if e.style.Even {
		style = evenStyle
	}
	if e.style.Weekend {
		style = style.Foreground(weekendColor)
	}
	if e.style.Short {
		style = style.Foreground(shortColor)
	}
	return style
}

func runElements(runs []timeline.Run) []*cellElement {
	out := make([]*cellElement, 0, len(runs))
	for i := range runs {
		if e, ok := runs[i].Element.(*cellElement); ok {
			out = append(out, e)
		}
	}
	return out
}
