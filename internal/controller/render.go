package controller

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	m "leela.dev/pkg/leela/internal/model"
)

// renderEstimationTable renders a per-file mutant count table.
func renderEstimationTable(mutants []m.Mutant) string {
	counts := make(map[m.Path]int)
	for _, mutant := range mutants {
		counts[mutant.Site.File]++
	}

	paths := make([]m.Path, 0, len(counts))
	for path := range counts {
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Path", "Mutants"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, path := range paths {
		table.Append([]string{string(path), fmt.Sprintf("%d", counts[path])})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(paths)),
		fmt.Sprintf("%d", len(mutants)),
	})

	table.Render()

	return buffer.String()
}

// renderReportTable renders per-unit status counts with an overall footer.
func renderReportTable(report m.Report) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Unit", "Killed", "Survived", "Timeout", "Error", "Pruned", "Unknown"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, unit := range report.Units {
		c := unit.Counts
		table.Append([]string{
			string(unit.Unit),
			fmt.Sprintf("%d", c.Killed),
			fmt.Sprintf("%d", c.Survived),
			fmt.Sprintf("%d", c.Timeout),
			fmt.Sprintf("%d", c.Error),
			fmt.Sprintf("%d", c.Pruned),
			fmt.Sprintf("%d", c.Unknown),
		})
	}

	o := report.Overall
	table.SetFooter([]string{
		"Overall",
		fmt.Sprintf("%d", o.Killed),
		fmt.Sprintf("%d", o.Survived),
		fmt.Sprintf("%d", o.Timeout),
		fmt.Sprintf("%d", o.Error),
		fmt.Sprintf("%d", o.Pruned),
		fmt.Sprintf("%d", o.Unknown),
	})

	table.Render()

	return buffer.String()
}

// renderSurvivors lists every undetected mutant, one line each.
func renderSurvivors(report m.Report) string {
	var b strings.Builder

	for _, record := range report.Mutants {
		if record.Status != m.StatusSurvived && record.Status != m.StatusTimeout {
			continue
		}

		fmt.Fprintf(&b, "  %s %s:%d:%d %s -> %s (%s)\n",
			record.ID, record.File, record.Line, record.Column,
			record.Original, renderReplacement(record.Replacement), record.Status)
	}

	return b.String()
}

func renderReplacement(replacement string) string {
	if replacement == "" {
		return "(removed)"
	}

	return replacement
}

// MutateLine applies a mutant record to its original source line.
func MutateLine(record m.MutantRecord, line string) string {
	col := record.Column - 1
	if col < 0 || col+len(record.Original) > len(line) {
		return line
	}

	return line[:col] + record.Replacement + line[col+len(record.Original):]
}

// RenderMutantDiff renders a unified diff between the original source line
// and the line with the mutant applied.
func RenderMutantDiff(record m.MutantRecord, line string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        []string{line + "\n"},
		B:        []string{MutateLine(record, line) + "\n"},
		FromFile: string(record.File),
		ToFile:   fmt.Sprintf("%s (mutant %s)", record.File, record.ID),
		Context:  0,
	}

	return difflib.GetUnifiedDiffString(diff)
}
