package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPublisher records published messages in memory
type MockPublisher struct {
	Messages map[models.Section][][]byte
	Trimmed  []models.Section
	FailAt   int
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[models.Section][][]byte), FailAt: -1}
}

func (m *MockPublisher) Publish(_ context.Context, section models.Section, message []byte) error {
	if m.FailAt >= 0 && len(m.Messages[section]) == m.FailAt {
		return errors.New("connection reset")
	}
	m.Messages[section] = append(m.Messages[section], message)
	return nil
}

func (m *MockPublisher) Trim(_ context.Context, section models.Section) error {
	m.Trimmed = append(m.Trimmed, section)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func testTable() *dataset.Table {
	return &dataset.Table{
		Header: dataset.Header,
		Rows: [][]string{
			{"REF-1", "ORG ONE", "ADDR 1", "Worship", "2024-01-01", "2026-12-31", "approved", ""},
			{"REF-2", "ORG TWO", "ADDR 2", "Worship", "2023-06-15", "2025-06-14", "revoked", ""},
		},
	}
}

func TestPublishTable(t *testing.T) {
	mock := NewMockPublisher()

	n, err := PublishTable(context.Background(), mock, models.SectionPUA, testTable())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, mock.Messages[models.SectionPUA], 2)
	assert.Equal(t, []models.Section{models.SectionPUA}, mock.Trimmed)

	var record map[string]string
	require.NoError(t, json.Unmarshal(mock.Messages[models.SectionPUA][1], &record))
	assert.Equal(t, "REF-2", record["reference_num"])
	assert.Equal(t, "revoked", record["status"])
	assert.Len(t, record, len(dataset.Header))
}

func TestPublishTableStopsOnError(t *testing.T) {
	mock := NewMockPublisher()
	mock.FailAt = 1

	n, err := PublishTable(context.Background(), mock, models.Section11D, testTable())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, mock.Trimmed)
}

func TestRedisPublisherStream(t *testing.T) {
	p := NewRedisPublisher("localhost:6379", 0, "orgcrawler", 100)
	defer p.Close()

	assert.Equal(t, "orgcrawler:446", p.Stream(models.Section446))
	assert.Equal(t, "orgcrawler:PUA", p.Stream(models.SectionPUA))
}
