// Package gate evaluates deploy-gate expressions against a validation
// report. Expressions decide whether a pass verdict is strict enough for a
// given pipeline, e.g. "unknown == 0 && disabled <= 2".
package gate

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/homecfg/hagate/pkg/validate"
)

// Env builds the expression environment for one report.
func Env(report *validate.Report) map[string]any {
	counts := report.Counts()
	return map[string]any{
		"verdict":            report.Verdict,
		"valid":              counts[validate.ClassValid],
		"unknown":            counts[validate.ClassUnknown],
		"disabled":           counts[validate.ClassDisabled],
		"consistency":        counts[validate.ClassConsistency],
		"syntax_errors":      report.SyntaxErrorCount(),
		"warnings":           report.WarningCount(),
		"files":              len(report.Files),
		"registry_available": report.RegistryAvailable,
	}
}

// Eval compiles and runs a boolean gate expression over the report.
func Eval(expression string, report *validate.Report) (bool, error) {
	env := Env(report)
	program, err := expr.Compile(expression, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile gate %q: %w", expression, err)
	}
	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("eval gate %q: %w", expression, err)
	}
	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("gate %q did not return bool (got %T: %v)", expression, output, output)
	}
	return result, nil
}
