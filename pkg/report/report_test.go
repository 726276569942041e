package report

import (
	"strings"
	"testing"

	"github.com/homecfg/hagate/pkg/validate"
)

func sampleReport() *validate.Report {
	return &validate.Report{
		Verdict: false,
		Files:   []string{"automations.yaml", "configuration.yaml"},
		Findings: []validate.Finding{
			{File: "automations.yaml", ID: "light.porch", Kind: "entity",
				Classification: validate.ClassValid},
			{File: "automations.yaml", ID: "sensor.ghost", Kind: "entity",
				Classification: validate.ClassUnknown},
			{File: "configuration.yaml", ID: "switch.heater", Kind: "entity",
				Classification: validate.ClassDisabled},
		},
		SyntaxErrors: []validate.SyntaxError{
			{File: "configuration.yaml", Line: 4, Phase: validate.PhaseStructural,
				Severity: validate.SeverityError, Message: "unrecognized tag !env_var"},
		},
		Advisories: []string{"registry snapshot unavailable, references cannot be resolved"},
	}
}

func TestRenderMentionsProblems(t *testing.T) {
	out := Render(sampleReport(), false)
	for _, want := range []string{
		"FAIL",
		"sensor.ghost",
		"switch.heater",
		"unrecognized tag !env_var",
		"registry snapshot unavailable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// non-verbose collapses valid findings to a count
	if strings.Contains(out, "light.porch") {
		t.Error("valid finding listed in non-verbose output")
	}
	if !strings.Contains(out, "1 valid reference(s)") {
		t.Errorf("no valid summary line:\n%s", out)
	}
}

func TestRenderVerboseListsValid(t *testing.T) {
	out := Render(sampleReport(), true)
	if !strings.Contains(out, "light.porch") {
		t.Errorf("verbose output missing valid finding:\n%s", out)
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())
	for _, want := range []string{
		"# Configuration validation: FAIL",
		"| Files | Valid | Unknown | Disabled | Consistency | Syntax errors |",
		"sensor.ghost",
		"**unknown**",
		"## Syntax",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "light.porch") {
		t.Error("valid finding listed in markdown problem section")
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if got := RenderMarkdown(""); got != "" {
		t.Errorf("RenderMarkdown(empty) = %q", got)
	}
}
