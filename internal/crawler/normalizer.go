package crawler

import (
	"strings"
	"time"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"
)

const (
	// DateLayout is the listing date format, e.g. "05 Mar 2024"
	DateLayout = "2 Jan 2006"
	// ApprovedMarker prefixes every approved status text
	ApprovedMarker = "DILULUSKAN"
	// RevokedPhrase is the exact status text of a revoked approval
	RevokedPhrase = "KELULUSAN DITARIK BALIK"
)

// ParseDate parses a "day abbreviated-month year" date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseStatus maps free-text status to the closed taxonomy. Unmapped text is
// rejected; nothing maps to expired.
func ParseStatus(s string) models.Status {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, ApprovedMarker):
		return models.StatusApproved
	case s == RevokedPhrase:
		return models.StatusRevoked
	default:
		return models.StatusRejected
	}
}

// NormalizeRemarks returns nil for blank remarks
func NormalizeRemarks(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Normalize converts a raw row into a validated record
func Normalize(section models.Section, row models.RawRow) (models.Organization, error) {
	start, err := ParseDate(row.StartDate)
	if err != nil {
		return models.Organization{}, errors.NewValidation(string(section), row.Index, "invalid start date", row.StartDate, err)
	}
	end, err := ParseDate(row.EndDate)
	if err != nil {
		return models.Organization{}, errors.NewValidation(string(section), row.Index, "invalid end date", row.EndDate, err)
	}

	org := models.Organization{
		ReferenceNum: row.ReferenceNum,
		Organization: row.Organization,
		Address:      row.Address,
		Category:     row.Category,
		StartDate:    start,
		EndDate:      end,
		Status:       ParseStatus(row.Status),
		Remarks:      NormalizeRemarks(row.Remarks),
	}

	if row.Variant == models.VariantPUA {
		org.Category = models.WorshipCategory
		org.Remarks = nil
	}

	return org, nil
}
