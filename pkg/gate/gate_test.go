package gate

import (
	"strings"
	"testing"

	"github.com/homecfg/hagate/pkg/validate"
)

func sampleReport() *validate.Report {
	return &validate.Report{
		Verdict: true,
		Files:   []string{"a.yaml", "b.yaml"},
		Findings: []validate.Finding{
			{File: "a.yaml", ID: "light.porch", Classification: validate.ClassValid},
			{File: "a.yaml", ID: "switch.heater", Classification: validate.ClassDisabled},
			{File: "b.yaml", ID: "sensor.door", Classification: validate.ClassValid},
		},
		RegistryAvailable: true,
	}
}

func TestEval(t *testing.T) {
	cases := []struct {
		expr string
		want bool
	}{
		{"verdict", true},
		{"unknown == 0", true},
		{"disabled == 0", false},
		{"valid >= 2 && syntax_errors == 0", true},
		{"warnings <= 0", false},
		{"files == 2 and registry_available", true},
	}
	for _, tc := range cases {
		got, err := Eval(tc.expr, sampleReport())
		if err != nil {
			t.Errorf("%q: %v", tc.expr, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q = %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestEvalCompileError(t *testing.T) {
	_, err := Eval("unknown ==", sampleReport())
	if err == nil || !strings.Contains(err.Error(), "compile gate") {
		t.Fatalf("err = %v", err)
	}
}

func TestEvalNonBoolRejected(t *testing.T) {
	_, err := Eval("disabled + 1", sampleReport())
	if err == nil {
		t.Fatal("expected error for non-bool expression")
	}
}
