package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/dataset"
)

// RecordField is the stream entry field holding one JSON-encoded row
const RecordField = "record"

// Publisher represents a service for publishing dataset rows
type Publisher interface {
	// Publish appends a message to the section's stream
	Publish(ctx context.Context, section models.Section, message []byte) error

	// Trim trims the section's stream to the configured maximum length
	Trim(ctx context.Context, section models.Section) error

	// Close closes the publisher connection
	Close() error
}

// PublishTable publishes every row of a consolidated table as a JSON object
// keyed by column name, then trims the stream. It returns the number of rows
// published.
func PublishTable(ctx context.Context, p Publisher, section models.Section, table *dataset.Table) (int, error) {
	for i, row := range table.Rows {
		record := make(map[string]string, len(table.Header))
		for j, column := range table.Header {
			if j < len(row) {
				record[column] = row[j]
			}
		}

		message, err := json.Marshal(record)
		if err != nil {
			return i, fmt.Errorf("failed to encode row %d: %w", i+1, err)
		}
		if err := p.Publish(ctx, section, message); err != nil {
			return i, fmt.Errorf("failed to publish row %d: %w", i+1, err)
		}
	}

	if err := p.Trim(ctx, section); err != nil {
		return len(table.Rows), fmt.Errorf("failed to trim stream: %w", err)
	}
	return len(table.Rows), nil
}
