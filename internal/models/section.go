package models

import (
	"fmt"
	"strings"
)

// Section is a regulatory donation-approval subsection with its own listing
type Section string

const (
	Section446 Section = "446"
	Section11D Section = "11D"
	SectionPUA Section = "PUA"
)

// Sections returns every known section
func Sections() []Section {
	return []Section{Section446, Section11D, SectionPUA}
}

// ParseSection parses a section identifier, ignoring case
func ParseSection(s string) (Section, error) {
	for _, section := range Sections() {
		if strings.EqualFold(strings.TrimSpace(s), string(section)) {
			return section, nil
		}
	}
	return "", fmt.Errorf("unknown section %q (want one of 446, 11D, PUA)", s)
}

// DisplayName returns the subsection name as published by LHDN
func (s Section) DisplayName() string {
	switch s {
	case Section446:
		return "44(6)"
	case Section11D:
		return "44(11D)"
	default:
		return "P.U.(A)"
	}
}

// DirName returns the per-section output directory name
func (s Section) DirName() string {
	switch s {
	case Section446:
		return "subsection_44_6"
	case Section11D:
		return "subsection_11D"
	default:
		return "subsection_PUA"
	}
}

// ConsolidatedFileName returns the merged dataset file name
func (s Section) ConsolidatedFileName() string {
	switch s {
	case Section446:
		return "subsection_44_6.csv"
	case Section11D:
		return "subsection_11D.csv"
	default:
		return "subsection_pua.csv"
	}
}

// HasCategoryFilter reports whether the listing form carries a category select.
// The P.U.(A) listing only filters by state.
func (s Section) HasCategoryFilter() bool {
	return s != SectionPUA
}

// Variant returns the table layout the section's listing is expected to use
func (s Section) Variant() Variant {
	if s == SectionPUA {
		return VariantPUA
	}
	return VariantStandard
}

// Variant is a table-schema layout of a listing page
type Variant int

const (
	// VariantStandard: reference, organization+address, category, start, end, status, remarks
	VariantStandard Variant = iota
	// VariantPUA: reference, organization+address, start, end, status
	VariantPUA
)

// PUAHeaderColumns is the header column count that identifies the P.U.(A) layout
const PUAHeaderColumns = 7

// VariantForColumns selects the layout from the header column count alone
func VariantForColumns(n int) Variant {
	if n == PUAHeaderColumns {
		return VariantPUA
	}
	return VariantStandard
}

// DataCells is the minimum number of data cells a row of this layout carries
func (v Variant) DataCells() int {
	if v == VariantPUA {
		return 5
	}
	return 7
}

func (v Variant) String() string {
	if v == VariantPUA {
		return "pua"
	}
	return "standard"
}
