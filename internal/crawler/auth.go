package crawler

import (
	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"
)

const (
	// AllOption is the "all" choice of every listing filter
	AllOption = "Semua"

	CategorySelector = "#DermaKategori"
	StateLabel       = "State"
	SubmitSelector   = "input[type='submit']"
)

// Authenticate submits the listing filter form with every filter set to all.
// The session must already be on the listing form.
func Authenticate(session Session, section models.Section) error {
	sec := string(section)

	if section.HasCategoryFilter() {
		if err := session.SelectOption(CategorySelector, AllOption); err != nil {
			return errors.NewAuthentication(sec, "failed to select all categories", err)
		}
	}

	if err := session.SelectOptionByLabel(StateLabel, AllOption); err != nil {
		return errors.NewAuthentication(sec, "failed to select all states", err)
	}

	if err := session.Click(SubmitSelector); err != nil {
		return errors.NewAuthentication(sec, "failed to submit filter form", err)
	}

	if err := session.WaitForNetworkIdle(); err != nil {
		return errors.NewAuthentication(sec, "filter results did not settle", err)
	}

	return nil
}
