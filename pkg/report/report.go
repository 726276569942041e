// Package report renders validation reports for terminals, markdown
// consumers and CI logs.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/homecfg/hagate/pkg/validate"
)

func glyphFor(class validate.Classification) (string, func(...string) string) {
	switch class {
	case validate.ClassValid:
		return GlyphValid, validStyle.Render
	case validate.ClassUnknown:
		return GlyphUnknown, unknownStyle.Render
	case validate.ClassDisabled:
		return GlyphDisabled, warnStyle.Render
	case validate.ClassConsistency:
		return GlyphConsistency, warnStyle.Render
	default:
		return "?", dimStyle.Render
	}
}

// Render produces the styled terminal report. With verbose false, valid
// findings are summarized as a count instead of listed.
func Render(r *validate.Report, verbose bool) string {
	var b strings.Builder

	verdict := passStyle.Render("PASS")
	if !r.Verdict {
		verdict = failStyle.Render("FAIL")
	}
	counts := r.Counts()
	b.WriteString(headerStyle.Render("Configuration validation") + "  " + verdict + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"%d files, %d references: %d valid, %d unknown, %d disabled, %d consistency, %d syntax errors",
		len(r.Files), len(r.Findings),
		counts[validate.ClassValid], counts[validate.ClassUnknown],
		counts[validate.ClassDisabled], counts[validate.ClassConsistency],
		r.SyntaxErrorCount())) + "\n")

	for _, advisory := range r.Advisories {
		b.WriteString(warnStyle.Render(GlyphAdvisory+" "+advisory) + "\n")
	}

	byFile := groupFindings(r, verbose)
	for _, file := range sortedKeys(byFile) {
		b.WriteString("\n" + fileHeadingStyle.Render(file) + "\n")
		for _, line := range byFile[file] {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func groupFindings(r *validate.Report, verbose bool) map[string][]string {
	byFile := make(map[string][]string)
	for _, e := range r.SyntaxErrors {
		render := unknownStyle.Render
		if e.Severity == validate.SeverityWarning {
			render = warnStyle.Render
		}
		loc := ""
		if e.Line > 0 {
			loc = fmt.Sprintf("line %d: ", e.Line)
		}
		byFile[e.File] = append(byFile[e.File],
			render(fmt.Sprintf("%s %s[%s] %s", GlyphSyntax, loc, e.Phase, e.Message)))
	}
	validPerFile := make(map[string]int)
	for _, f := range r.Findings {
		if f.Classification == validate.ClassValid && !verbose {
			validPerFile[f.File]++
			continue
		}
		glyph, render := glyphFor(f.Classification)
		line := fmt.Sprintf("%s %s %s is %s", glyph, f.Kind, f.ID, f.Classification)
		if f.Detail != "" {
			line += " (" + f.Detail + ")"
		}
		byFile[f.File] = append(byFile[f.File], render(line))
	}
	for file, n := range validPerFile {
		byFile[file] = append(byFile[file],
			dimStyle.Render(fmt.Sprintf("%s %d valid reference(s)", GlyphValid, n)))
	}
	return byFile
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Markdown produces a plain markdown rendition of the report, suitable for
// PR comments and the MCP surface.
func Markdown(r *validate.Report) string {
	var b strings.Builder
	verdict := "PASS"
	if !r.Verdict {
		verdict = "FAIL"
	}
	counts := r.Counts()
	fmt.Fprintf(&b, "# Configuration validation: %s\n\n", verdict)
	fmt.Fprintf(&b, "| Files | Valid | Unknown | Disabled | Consistency | Syntax errors |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n",
		len(r.Files),
		counts[validate.ClassValid], counts[validate.ClassUnknown],
		counts[validate.ClassDisabled], counts[validate.ClassConsistency],
		r.SyntaxErrorCount())

	for _, advisory := range r.Advisories {
		fmt.Fprintf(&b, "\n> %s\n", advisory)
	}

	if len(r.SyntaxErrors) > 0 {
		b.WriteString("\n## Syntax\n\n")
		for _, e := range r.SyntaxErrors {
			fmt.Fprintf(&b, "- `%s`\n", e.String())
		}
	}

	problems := false
	for _, f := range r.Findings {
		if f.Classification == validate.ClassValid {
			continue
		}
		if !problems {
			b.WriteString("\n## Findings\n\n")
			problems = true
		}
		line := fmt.Sprintf("- `%s`: %s `%s` is **%s**", f.File, f.Kind, f.ID, f.Classification)
		if f.Detail != "" {
			line += " (" + f.Detail + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
