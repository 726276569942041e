package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/homecfg/hagate/pkg/validate"
)

// filter selects which report entries are listed.
type filter int

const (
	filterAll filter = iota
	filterUnknown
	filterDisabled
	filterConsistency
	filterSyntax
)

func (f filter) String() string {
	switch f {
	case filterUnknown:
		return "unknown"
	case filterDisabled:
		return "disabled"
	case filterConsistency:
		return "consistency"
	case filterSyntax:
		return "syntax"
	default:
		return "all"
	}
}

// row is one renderable line: either a file heading or an entry under it.
type row struct {
	heading string
	text    string
	style   func(...string) string
}

// Model is the top-level Bubble Tea model for the findings browser.
type Model struct {
	report   *validate.Report
	filter   filter
	cursor   int
	rows     []row
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New builds the browser model over a finished report.
func New(report *validate.Report) Model {
	m := Model{report: report}
	m.rebuild()
	return m
}

// Run displays the browser and blocks until the user quits.
func Run(report *validate.Report) error {
	p := tea.NewProgram(New(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := 2
		footerHeight := 1
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.viewport.SetContent(m.renderRows())

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, keys.PgUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, keys.PgDown):
			m.viewport.HalfViewDown()
		case key.Matches(msg, keys.All):
			m.setFilter(filterAll)
		case key.Matches(msg, keys.Unknown):
			m.setFilter(filterUnknown)
		case key.Matches(msg, keys.Disabled):
			m.setFilter(filterDisabled)
		case key.Matches(msg, keys.Consistency):
			m.setFilter(filterConsistency)
		case key.Matches(msg, keys.Syntax):
			m.setFilter(filterSyntax)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) setFilter(f filter) {
	m.filter = f
	m.cursor = 0
	m.rebuild()
	if m.ready {
		m.viewport.SetContent(m.renderRows())
		m.viewport.GotoTop()
	}
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	for next >= 0 && next < len(m.rows) {
		if m.rows[next].heading == "" {
			break
		}
		next += delta
	}
	if next >= 0 && next < len(m.rows) && m.rows[next].heading == "" {
		m.cursor = next
	}
	if m.ready {
		m.viewport.SetContent(m.renderRows())
	}
}

// rebuild regenerates the visible rows from the report and filter.
func (m *Model) rebuild() {
	var rows []row
	lastFile := ""
	addHeading := func(file string) {
		if file != lastFile {
			rows = append(rows, row{heading: file})
			lastFile = file
		}
	}

	if m.filter == filterAll || m.filter == filterSyntax {
		for _, e := range m.report.SyntaxErrors {
			addHeading(e.File)
			style := rowUnknown.Render
			if e.Severity == validate.SeverityWarning {
				style = rowWarn.Render
			}
			text := fmt.Sprintf("%s [%s] %s", glyphSyntax, e.Phase, e.Message)
			if e.Line > 0 {
				text = fmt.Sprintf("%s line %d: [%s] %s", glyphSyntax, e.Line, e.Phase, e.Message)
			}
			rows = append(rows, row{text: text, style: style})
		}
	}
	if m.filter != filterSyntax {
		for _, f := range m.report.Findings {
			if !m.matches(f.Classification) {
				continue
			}
			addHeading(f.File)
			glyph, style := glyphFor(f.Classification)
			text := fmt.Sprintf("%s %s %s is %s", glyph, f.Kind, f.ID, f.Classification)
			if f.Detail != "" {
				text += " (" + f.Detail + ")"
			}
			rows = append(rows, row{text: text, style: style})
		}
	}
	m.rows = rows
	// park the cursor on the first entry row
	for i, r := range m.rows {
		if r.heading == "" {
			m.cursor = i
			break
		}
	}
}

func (m *Model) matches(class validate.Classification) bool {
	switch m.filter {
	case filterUnknown:
		return class == validate.ClassUnknown
	case filterDisabled:
		return class == validate.ClassDisabled
	case filterConsistency:
		return class == validate.ClassConsistency
	default:
		return true
	}
}

func glyphFor(class validate.Classification) (string, func(...string) string) {
	switch class {
	case validate.ClassValid:
		return glyphValid, rowValid.Render
	case validate.ClassUnknown:
		return glyphUnknown, rowUnknown.Render
	case validate.ClassDisabled:
		return glyphDisabled, rowWarn.Render
	case validate.ClassConsistency:
		return glyphConsistency, rowWarn.Render
	default:
		return "?", rowDim.Render
	}
}

func (m *Model) renderRows() string {
	var b strings.Builder
	for i, r := range m.rows {
		if r.heading != "" {
			b.WriteString(fileStyle.Render(r.heading) + "\n")
			continue
		}
		prefix := "  "
		line := r.style(r.text)
		if i == m.cursor {
			prefix = glyphCursor + " "
			line = rowSelected.Render(r.text)
		}
		b.WriteString(prefix + line + "\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(rowDim.Render(fmt.Sprintf("no %s entries", m.filter)) + "\n")
	}
	return b.String()
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	badge := passBadge.Render("PASS")
	if !m.report.Verdict {
		badge = failBadge.Render("FAIL")
	}
	counts := m.report.Counts()
	header := titleStyle.Render("hagate findings") + badge + "  " +
		statusBarStyle.Render(fmt.Sprintf("filter: %s", m.filter)) + "\n" +
		statusBarStyle.Render(fmt.Sprintf(
			"%d valid  %d unknown  %d disabled  %d consistency  %d syntax",
			counts[validate.ClassValid], counts[validate.ClassUnknown],
			counts[validate.ClassDisabled], counts[validate.ClassConsistency],
			len(m.report.SyntaxErrors))) + "\n"
	footer := statusBarStyle.Render(
		"↑/↓ move  a all  u unknown  d disabled  c consistency  s syntax  q quit")
	return header + m.viewport.View() + "\n" + footer
}
