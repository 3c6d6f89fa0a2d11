// Package dataset reads and writes the CSV artifacts of the pipeline: one
// file per shard and one consolidated file per section.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"sjsage522/orgcrawler/internal/models"
)

// Header is the column layout of every shard and consolidated file
var Header = []string{
	"reference_num",
	"organization",
	"address",
	"category",
	"start_date",
	"end_date",
	"status",
	"remarks",
}

// DateLayout is how dates are written to CSV
const DateLayout = "2006-01-02"

// Table is an in-memory CSV file
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of a column, or -1
func (t *Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// Encode converts a record into a CSV row
func Encode(o models.Organization) []string {
	remarks := ""
	if o.Remarks != nil {
		remarks = *o.Remarks
	}
	return []string{
		o.ReferenceNum,
		o.Organization,
		o.Address,
		o.Category,
		o.StartDate.Format(DateLayout),
		o.EndDate.Format(DateLayout),
		string(o.Status),
		remarks,
	}
}

// Decode converts a CSV row in Header layout back into a record
func Decode(row []string) (models.Organization, error) {
	if len(row) != len(Header) {
		return models.Organization{}, fmt.Errorf("expected %d columns, got %d", len(Header), len(row))
	}
	start, err := time.Parse(DateLayout, row[4])
	if err != nil {
		return models.Organization{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(DateLayout, row[5])
	if err != nil {
		return models.Organization{}, fmt.Errorf("end_date: %w", err)
	}
	status := models.Status(row[6])
	if !status.Valid() {
		return models.Organization{}, fmt.Errorf("status %q is not in the closed taxonomy", row[6])
	}

	var remarks *string
	if row[7] != "" {
		r := row[7]
		remarks = &r
	}

	return models.Organization{
		ReferenceNum: row[0],
		Organization: row[1],
		Address:      row[2],
		Category:     row[3],
		StartDate:    start,
		EndDate:      end,
		Status:       status,
		Remarks:      remarks,
	}, nil
}

// ReadTable reads a CSV file with a header row
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}
	return &Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteTable writes a table to path, replacing any existing file only once the
// new content is fully written.
func WriteTable(path string, t *Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Header); err != nil {
		tmp.Close()
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ReadRecords decodes every row of a dataset file
func ReadRecords(path string) ([]models.Organization, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(t.Header, Header) {
		return nil, fmt.Errorf("%s: unexpected header %v", path, t.Header)
	}

	records := make([]models.Organization, 0, len(t.Rows))
	for i, row := range t.Rows {
		o, err := Decode(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		records = append(records, o)
	}
	return records, nil
}

// SectionDir returns the output directory of a section
func SectionDir(root string, section models.Section) string {
	return filepath.Join(root, section.DirName())
}

// ConsolidatedPath returns the merged dataset path of a section
func ConsolidatedPath(root string, section models.Section) string {
	return filepath.Join(SectionDir(root, section), section.ConsolidatedFileName())
}
