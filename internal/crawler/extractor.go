package crawler

import (
	"fmt"
	"strings"

	"sjsage522/orgcrawler/helpers"
	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// AnchorHeader is the header text that identifies the results table
const AnchorHeader = "APPROVAL REFERENCE NO."

// nameSelector matches the emphasized organization name inside the name+address cell
const nameSelector = "strong, b, em"

// Extraction is the outcome of parsing one listing page
type Extraction struct {
	Variant models.Variant
	Columns int
	Rows    []models.RawRow
	// Skipped holds rows dropped for missing mandatory cells
	Skipped []*errors.CrawlerError
}

// ExtractRows parses a listing page into raw rows in table order. A page
// without the anchor header is unparseable as a whole.
func ExtractRows(section models.Section, markup string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, errors.NewParsing(string(section), "HTML parse error", markup, err)
	}

	anchor := doc.Find("th").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(helpers.CollapseSpaces(s.Text()), AnchorHeader)
	}).First()
	if anchor.Length() == 0 {
		return nil, errors.NewParsing(string(section), "results table not found", markup, errors.ErrAnchorNotFound)
	}

	table := anchor.Closest("table")
	if table.Length() == 0 {
		return nil, errors.NewParsing(string(section), "anchor header is not inside a table", markup, errors.ErrAnchorNotFound)
	}

	columns := table.Find("th").Length()
	result := &Extraction{
		Variant: models.VariantForColumns(columns),
		Columns: columns,
	}

	index := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() == 0 || strings.TrimSpace(cells.First().Text()) == "" {
			return
		}
		index++

		row, err := extractRow(section, result.Variant, index, cells)
		if err != nil {
			result.Skipped = append(result.Skipped, err)
			return
		}
		result.Rows = append(result.Rows, row)
	})

	return result, nil
}

func extractRow(section models.Section, variant models.Variant, index int, cells *goquery.Selection) (models.RawRow, *errors.CrawlerError) {
	raw := helpers.CollapseSpaces(cells.Text())
	if cells.Length() < variant.DataCells() {
		msg := fmt.Sprintf("expected %d cells, got %d", variant.DataCells(), cells.Length())
		return models.RawRow{}, errors.NewValidation(string(section), index, msg, raw, errors.ErrMissingCell)
	}

	text := func(i int) string {
		return strings.TrimSpace(cells.Eq(i).Text())
	}

	nameCell := cells.Eq(1)
	organization := strings.TrimSpace(nameCell.Find(nameSelector).First().Text())
	if organization == "" {
		return models.RawRow{}, errors.NewValidation(string(section), index, "organization name not found", raw, errors.ErrMissingCell)
	}
	address := helpers.CollapseSpaces(helpers.RemoveOnce(strings.TrimSpace(nameCell.Text()), organization))

	row := models.RawRow{
		Index:        index,
		Variant:      variant,
		ReferenceNum: text(0),
		Organization: organization,
		Address:      address,
	}

	if variant == models.VariantPUA {
		row.StartDate = text(2)
		row.EndDate = text(3)
		row.Status = text(4)
	} else {
		row.Category = text(2)
		row.StartDate = text(3)
		row.EndDate = text(4)
		row.Status = text(5)
		row.Remarks = text(6)
	}

	return row, nil
}
