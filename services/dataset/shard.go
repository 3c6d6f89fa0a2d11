package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"sjsage522/orgcrawler/internal/models"
)

const (
	shardPrefix = "shard_"
	shardExt    = ".csv"
)

// ShardPath returns the artifact path of a shard inside a section directory
func ShardPath(dir string, id int) string {
	return filepath.Join(dir, fmt.Sprintf("%s%d%s", shardPrefix, id, shardExt))
}

// WriteShard writes all records of a shard to its artifact, overwriting any
// stale file. The returned flag reports whether a previous artifact existed.
func WriteShard(dir string, shard models.Shard, records []models.Organization) (string, bool, error) {
	path := ShardPath(dir, shard.ID)

	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	}

	rows := make([][]string, 0, len(records))
	for _, o := range records {
		rows = append(rows, Encode(o))
	}

	if err := WriteTable(path, &Table{Header: Header, Rows: rows}); err != nil {
		return "", existed, err
	}
	return path, existed, nil
}

// ShardFiles lists the shard artifacts of a section directory, ordered by ID
func ShardFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	type shardFile struct {
		id   int
		path string
	}
	var files []shardFile
	for _, e := range entries {
		if id, ok := parseShardName(e.Name()); ok && !e.IsDir() {
			files = append(files, shardFile{id: id, path: filepath.Join(dir, e.Name())})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].id < files[j].id })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

func parseShardName(name string) (int, bool) {
	if !strings.HasPrefix(name, shardPrefix) || !strings.HasSuffix(name, shardExt) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, shardPrefix), shardExt))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// VerifyShards returns the IDs in [from, to] whose shard artifact is missing
func VerifyShards(dir string, from, to int) []int {
	var missing []int
	for id := from; id <= to; id++ {
		if _, err := os.Stat(ShardPath(dir, id)); err != nil {
			missing = append(missing, id)
		}
	}
	return missing
}
