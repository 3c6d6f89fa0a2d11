package categorize

import (
	"fmt"
	"io"
	"sort"

	"sjsage522/orgcrawler/services/dataset"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	// CategoryColumn holds the derived category, distinct from the source category column
	CategoryColumn       = "org_category"
	organizationColumn   = "organization"
	classificationColumn = "classification"
)

// Count is the number of rows assigned to a category
type Count struct {
	Category string
	Rows     int
}

// EnrichFile adds the derived category column to a consolidated dataset.
// An empty dst overwrites src. Re-running replaces the previous values.
func (r *Ruleset) EnrichFile(src, dst string) ([]Count, error) {
	t, err := dataset.ReadTable(src)
	if err != nil {
		return nil, err
	}

	nameCol := t.Column(organizationColumn)
	if nameCol < 0 {
		return nil, fmt.Errorf("%s must contain an %q column", src, organizationColumn)
	}
	hintCol := t.Column(classificationColumn)

	outCol := t.Column(CategoryColumn)
	if outCol < 0 {
		t.Header = append(t.Header, CategoryColumn)
		outCol = len(t.Header) - 1
	}

	counts := make(map[string]int)
	for i, row := range t.Rows {
		var hint string
		if hintCol >= 0 && hintCol < len(row) {
			hint = row[hintCol]
		}
		category := r.Categorize(row[nameCol], hint)
		counts[category]++

		if outCol < len(row) {
			row[outCol] = category
		} else {
			row = append(row, category)
		}
		t.Rows[i] = row
	}

	if dst == "" {
		dst = src
	}
	if err := dataset.WriteTable(dst, t); err != nil {
		return nil, err
	}
	return sortCounts(counts), nil
}

func sortCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for category, n := range counts {
		out = append(out, Count{Category: category, Rows: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rows != out[j].Rows {
			return out[i].Rows > out[j].Rows
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Summarize counts names per category
func (r *Ruleset) Summarize(names []string) []Count {
	counts := make(map[string]int)
	for _, name := range names {
		counts[r.Classify(name)]++
	}
	return sortCounts(counts)
}

// RenderSummary writes category counts as a table
func RenderSummary(w io.Writer, counts []Count) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Category", "Rows"})

	total := 0
	for _, c := range counts {
		tw.AppendRow(table.Row{c.Category, c.Rows})
		total += c.Rows
	}
	tw.AppendFooter(table.Row{"Total", total})
	tw.Render()
}
