package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/homecfg/hagate/pkg/validate"
)

func sampleReport() *validate.Report {
	return &validate.Report{
		Verdict: false,
		Files:   []string{"a.yaml", "b.yaml"},
		Findings: []validate.Finding{
			{File: "a.yaml", ID: "light.porch", Kind: "entity",
				Classification: validate.ClassValid},
			{File: "a.yaml", ID: "sensor.ghost", Kind: "entity",
				Classification: validate.ClassUnknown},
			{File: "b.yaml", ID: "switch.heater", Kind: "entity",
				Classification: validate.ClassDisabled},
		},
		SyntaxErrors: []validate.SyntaxError{
			{File: "b.yaml", Line: 3, Phase: validate.PhaseStructural,
				Severity: validate.SeverityError, Message: "duplicate key \"entity_id\""},
		},
	}
}

func sized(m Model) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func TestViewShowsAllEntries(t *testing.T) {
	m := sized(New(sampleReport()))
	view := m.View()
	for _, want := range []string{"FAIL", "sensor.ghost", "switch.heater", "duplicate key"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestFilterUnknown(t *testing.T) {
	m := sized(New(sampleReport()))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "sensor.ghost") {
		t.Errorf("unknown finding missing:\n%s", view)
	}
	if strings.Contains(view, "switch.heater") || strings.Contains(view, "duplicate key") {
		t.Errorf("filtered entries still visible:\n%s", view)
	}
}

func TestFilterSyntax(t *testing.T) {
	m := sized(New(sampleReport()))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "duplicate key") {
		t.Errorf("syntax entry missing:\n%s", view)
	}
	if strings.Contains(view, "sensor.ghost") {
		t.Errorf("finding visible under syntax filter:\n%s", view)
	}
}

func TestFilterBackToAll(t *testing.T) {
	m := sized(New(sampleReport()))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	updated, _ = updated.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "switch.heater") {
		t.Errorf("all filter lost entries:\n%s", view)
	}
}

func TestQuit(t *testing.T) {
	m := sized(New(sampleReport()))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg == nil {
		t.Fatal("quit command returned nil message")
	}
}

func TestCursorSkipsHeadings(t *testing.T) {
	m := New(sampleReport())
	if m.rows[m.cursor].heading != "" {
		t.Fatalf("cursor on heading row %d", m.cursor)
	}
	start := m.cursor
	m.moveCursor(1)
	if m.cursor == start || m.rows[m.cursor].heading != "" {
		t.Errorf("cursor = %d", m.cursor)
	}
}
