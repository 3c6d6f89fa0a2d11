package crawler

import (
	"context"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/logger"
	"sjsage522/orgcrawler/pkg/errors"
)

// ShardCrawler walks the pages of one section's shards
type ShardCrawler struct {
	Section   models.Section
	BaseURL   string
	Cache     *PageCache
	Snapshots SnapshotSaver
	Log       *logger.Logger
}

// ShardResult is the outcome of crawling one shard
type ShardResult struct {
	Records      []models.Organization
	PagesOK      int
	PagesSkipped int
	RowsSkipped  int
}

// NewShardCrawler creates a crawler for section. Cache and Snapshots may be nil.
func NewShardCrawler(section models.Section, baseURL string, pageCache *PageCache, snapshots SnapshotSaver, log *logger.Logger) *ShardCrawler {
	return &ShardCrawler{
		Section:   section,
		BaseURL:   baseURL,
		Cache:     pageCache,
		Snapshots: snapshots,
		Log:       log.ForComponent("crawler").ForSection(string(section)),
	}
}

// Crawl authenticates session and processes every page of shard in order.
// Page and row failures are logged and skipped; an authentication failure or
// cancellation ends the shard with an error.
func (c *ShardCrawler) Crawl(ctx context.Context, session Session, shard models.Shard) (*ShardResult, error) {
	log := c.Log.WithFields(logger.Fields{"shard": shard.ID, "first_page": shard.Start, "last_page": shard.End})

	if err := session.Navigate(c.BaseURL); err != nil {
		return nil, errors.NewAuthentication(string(c.Section), "failed to open listing form", err)
	}
	if err := Authenticate(session, c.Section); err != nil {
		return nil, err
	}
	log.Debug().Msg("Session authenticated")

	result := &ShardResult{}
	for page := shard.Start; page <= shard.End; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		plog := log.WithField("page", page)

		markup, cached, err := c.fetchPage(session, page)
		if err != nil {
			result.PagesSkipped++
			plog.WithError(err).Error().Msg("Skipping page: navigation failed")
			continue
		}

		if c.Snapshots != nil && !cached {
			if err := c.Snapshots.Save(c.Section, page, markup); err != nil {
				plog.WithError(err).Warn().Msg("Failed to save snapshot")
			}
		}

		records, skipped, err := c.ProcessPage(page, markup, plog)
		if err != nil {
			result.PagesSkipped++
			plog.WithError(err).Error().Int("markup_length", len(markup)).Msg("Skipping page: parse failed")
			plog.Debug().Str("raw", markup).Msg("Unparseable page markup")
			if cached {
				if err := c.Cache.Invalidate(c.Section, page); err != nil {
					plog.WithError(err).Warn().Msg("Failed to invalidate cached page")
				}
			}
			continue
		}

		result.PagesOK++
		result.RowsSkipped += skipped
		result.Records = append(result.Records, records...)
	}

	log.Info().
		Int("records", len(result.Records)).
		Int("pages_ok", result.PagesOK).
		Int("pages_skipped", result.PagesSkipped).
		Int("rows_skipped", result.RowsSkipped).
		Msg("Shard crawled")

	return result, nil
}

// fetchPage returns the page markup from the cache or the live session
func (c *ShardCrawler) fetchPage(session Session, page int) (string, bool, error) {
	if markup, ok := c.Cache.Get(c.Section, page); ok {
		return markup, true, nil
	}

	sec := string(c.Section)
	pageURL, err := PageURL(c.BaseURL, page)
	if err != nil {
		return "", false, errors.NewNetwork(sec, page, "invalid page URL", err)
	}
	if err := session.Navigate(pageURL); err != nil {
		return "", false, errors.NewNetwork(sec, page, "navigation failed", err)
	}
	if err := session.WaitForNetworkIdle(); err != nil {
		return "", false, errors.NewNetwork(sec, page, "page did not settle", err)
	}
	markup, err := session.Content()
	if err != nil {
		return "", false, errors.NewNetwork(sec, page, "failed to read page content", err)
	}

	if err := c.Cache.Set(c.Section, page, markup); err != nil {
		c.Log.WithError(err).Warn().Int("page", page).Msg("Failed to cache page")
	}
	return markup, false, nil
}

// ProcessPage extracts and normalizes the records of one page, returning the
// records in table order and the number of skipped rows
func (c *ShardCrawler) ProcessPage(page int, markup string, log *logger.Logger) ([]models.Organization, int, error) {
	extraction, err := ExtractRows(c.Section, markup)
	if err != nil {
		if ce, ok := err.(*errors.CrawlerError); ok {
			return nil, 0, ce.WithPage(page)
		}
		return nil, 0, err
	}

	if extraction.Variant != c.Section.Variant() {
		log.Warn().
			Int("columns", extraction.Columns).
			Str("variant", extraction.Variant.String()).
			Msg("Table layout differs from the section's usual layout")
	}

	skipped := len(extraction.Skipped)
	for _, rowErr := range extraction.Skipped {
		log.Warn().Int("row", rowErr.Row).Str("raw", rowErr.Raw).Msg("Skipping row: " + rowErr.Message)
	}

	records := make([]models.Organization, 0, len(extraction.Rows))
	for _, row := range extraction.Rows {
		org, err := Normalize(c.Section, row)
		if err != nil {
			skipped++
			log.WithError(err).Warn().
				Int("row", row.Index).
				Str("reference_num", row.ReferenceNum).
				Msg("Skipping row: normalization failed")
			continue
		}
		if org.EndDate.Before(org.StartDate) {
			log.Warn().
				Int("row", row.Index).
				Str("reference_num", org.ReferenceNum).
				Msg("End date precedes start date")
		}
		records = append(records, org)
	}

	return records, skipped, nil
}
