package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/homecfg/hagate/pkg/registry"
)

// RegistryTable renders the per-domain entity summary as an aligned table.
// Alignment uses display width so wide glyphs in entity ids do not skew
// columns.
func RegistryTable(snap *registry.Snapshot) string {
	rows := [][]string{{"DOMAIN", "TOTAL", "ENABLED", "DISABLED", "EXAMPLES"}}
	for _, ds := range snap.Summary() {
		rows = append(rows, []string{
			ds.Domain,
			fmt.Sprintf("%d", ds.Count),
			fmt.Sprintf("%d", ds.Enabled),
			fmt.Sprintf("%d", ds.Disabled),
			strings.Join(ds.Examples, ", "),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteString("\n")
	}

	entities, devices, areas := snap.Counts()
	fmt.Fprintf(&b, "\n%d entities, %d devices, %d areas\n", entities, devices, areas)
	return b.String()
}
