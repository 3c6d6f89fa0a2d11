package dataset

import (
	"fmt"
	"slices"
	"sort"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"
)

// Merge concatenates shard files into dest with the header written once.
// Rows are not deduplicated. Nothing is written unless every input is read.
func Merge(section models.Section, paths []string, dest string) (int, error) {
	if len(paths) == 0 {
		return 0, errors.NewMerge(string(section), "nothing to merge", errors.ErrNoShardFiles)
	}

	merged := &Table{Header: Header}
	for _, path := range paths {
		t, err := ReadTable(path)
		if err != nil {
			return 0, errors.NewMerge(string(section), fmt.Sprintf("failed to read %s", path), err)
		}
		if !slices.Equal(t.Header, Header) {
			return 0, errors.NewMerge(string(section), fmt.Sprintf("%s has header %v", path, t.Header), errors.ErrHeaderMismatch)
		}
		merged.Rows = append(merged.Rows, t.Rows...)
	}

	if err := WriteTable(dest, merged); err != nil {
		return 0, errors.NewMerge(string(section), fmt.Sprintf("failed to write %s", dest), err)
	}
	return len(merged.Rows), nil
}

// MergeSection merges every shard artifact of a section into its
// consolidated dataset and returns the dataset path and row count.
func MergeSection(root string, section models.Section) (string, int, error) {
	paths, err := ShardFiles(SectionDir(root, section))
	if err != nil {
		return "", 0, errors.NewMerge(string(section), "failed to list shard files", err)
	}

	dest := ConsolidatedPath(root, section)
	n, err := Merge(section, paths, dest)
	if err != nil {
		return "", 0, err
	}
	return dest, n, nil
}

// DuplicateReferences returns reference numbers occurring more than once in a
// dataset file, with their counts, sorted by reference number.
func DuplicateReferences(path string) ([]Duplicate, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	col := t.Column("reference_num")
	if col < 0 {
		return nil, fmt.Errorf("%s has no reference_num column", path)
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		if col < len(row) {
			counts[row[col]]++
		}
	}

	var dups []Duplicate
	for ref, n := range counts {
		if n > 1 {
			dups = append(dups, Duplicate{ReferenceNum: ref, Count: n})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].ReferenceNum < dups[j].ReferenceNum })
	return dups, nil
}

// Duplicate is a reference number seen more than once
type Duplicate struct {
	ReferenceNum string
	Count        int
}
