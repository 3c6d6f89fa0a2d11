package models

import "fmt"

// Shard is a contiguous, inclusive page range owned by one worker
type Shard struct {
	ID    int
	Start int
	End   int
}

func (s Shard) String() string {
	return fmt.Sprintf("shard %d [%d-%d]", s.ID, s.Start, s.End)
}

// Pages returns the number of pages in the shard
func (s Shard) Pages() int {
	return s.End - s.Start + 1
}

// PlanShards splits [first, last] into shards of at most pagesPerShard pages.
// IDs are 1-based in page order.
func PlanShards(first, last, pagesPerShard int) ([]Shard, error) {
	if first < 1 || last < first {
		return nil, fmt.Errorf("invalid page range %d-%d", first, last)
	}
	if pagesPerShard < 1 {
		return nil, fmt.Errorf("pages per shard must be positive, got %d", pagesPerShard)
	}

	var shards []Shard
	for start, id := first, 1; start <= last; start, id = start+pagesPerShard, id+1 {
		end := start + pagesPerShard - 1
		if end > last {
			end = last
		}
		shards = append(shards, Shard{ID: id, Start: start, End: end})
	}
	return shards, nil
}
