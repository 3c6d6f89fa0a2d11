package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(prefix string, n int) []models.Organization {
	records := make([]models.Organization, n)
	for i := range records {
		var remarks *string
		if i%2 == 0 {
			r := "Approval renewed"
			remarks = &r
		}
		records[i] = models.Organization{
			ReferenceNum: fmt.Sprintf("LHDN.01/35/42/51/179-6.%s%d", prefix, i),
			Organization: fmt.Sprintf("PERTUBUHAN %s %d", prefix, i),
			Address:      "JALAN AMPANG, 50450 KUALA LUMPUR",
			Category:     "Kebajikan",
			StartDate:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
			EndDate:      time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			Status:       models.StatusApproved,
			Remarks:      remarks,
		}
	}
	return records
}

func TestEncodeDecode(t *testing.T) {
	records := makeRecords("A", 2)

	row := Encode(records[0])
	assert.Equal(t, "2023-01-01", row[4])
	assert.Equal(t, "approved", row[6])
	assert.Equal(t, "Approval renewed", row[7])

	back, err := Decode(Encode(records[1]))
	require.NoError(t, err)
	assert.Nil(t, back.Remarks)
	assert.Equal(t, records[1], back)

	bad := Encode(records[0])
	bad[6] = "pending"
	_, err = Decode(bad)
	assert.Error(t, err)

	_, err = Decode(bad[:3])
	assert.Error(t, err)
}

func TestWriteShardOverwrites(t *testing.T) {
	dir := t.TempDir()
	shard := models.Shard{ID: 4, Start: 31, End: 40}

	path, existed, err := WriteShard(dir, shard, makeRecords("A", 3))
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, filepath.Join(dir, "shard_4.csv"), path)

	path, existed, err = WriteShard(dir, shard, makeRecords("B", 1))
	require.NoError(t, err)
	assert.True(t, existed)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, strings.HasSuffix(records[0].ReferenceNum, "B0"))
}

func TestMergeHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, n := range []int{5, 3, 2} {
		path, _, err := WriteShard(dir, models.Shard{ID: i + 1}, makeRecords(fmt.Sprint(i), n))
		require.NoError(t, err)
		paths = append(paths, path)
	}

	dest := filepath.Join(dir, "subsection_44_6.csv")
	n, err := Merge(models.Section446, paths, dest)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 11)
	assert.Equal(t, 1, strings.Count(string(data), "reference_num,organization"))
}

func TestMergeOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, n := range []int{4, 1, 3} {
		path, _, err := WriteShard(dir, models.Shard{ID: i + 1}, makeRecords(fmt.Sprint(i), n))
		require.NoError(t, err)
		paths = append(paths, path)
	}

	forward := filepath.Join(dir, "forward.csv")
	reverse := filepath.Join(dir, "reverse.csv")
	_, err := Merge(models.Section11D, paths, forward)
	require.NoError(t, err)
	_, err = Merge(models.Section11D, []string{paths[2], paths[0], paths[1]}, reverse)
	require.NoError(t, err)

	a, err := ReadTable(forward)
	require.NoError(t, err)
	b, err := ReadTable(reverse)
	require.NoError(t, err)

	diff := cmp.Diff(
		a.Rows, b.Rows,
		cmpopts.SortSlices(func(x, y []string) bool {
			return strings.Join(x, "\x00") < strings.Join(y, "\x00")
		}),
	)
	assert.Empty(t, diff)
	assert.Len(t, a.Rows, 8)
}

func TestMergeNoShards(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "subsection_pua.csv")

	_, err := Merge(models.SectionPUA, nil, dest)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMerge))
	assert.ErrorIs(t, err, errors.ErrNoShardFiles)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no partial output may be written")
}

func TestMergeHeaderMismatchLeavesDestination(t *testing.T) {
	dir := t.TempDir()
	good, _, err := WriteShard(dir, models.Shard{ID: 1}, makeRecords("A", 2))
	require.NoError(t, err)

	bad := filepath.Join(dir, "shard_2.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n1,2\n"), 0o644))

	dest := filepath.Join(dir, "merged.csv")
	require.NoError(t, os.WriteFile(dest, []byte("previous"), 0o644))

	_, err = Merge(models.Section446, []string{good, bad}, dest)
	assert.ErrorIs(t, err, errors.ErrHeaderMismatch)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestMergeSectionAndVerify(t *testing.T) {
	root := t.TempDir()
	dir := SectionDir(root, models.SectionPUA)

	for _, id := range []int{1, 2, 4, 10} {
		_, _, err := WriteShard(dir, models.Shard{ID: id}, makeRecords(fmt.Sprint(id), 1))
		require.NoError(t, err)
	}

	files, err := ShardFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.True(t, strings.HasSuffix(files[3], "shard_10.csv"), "files are ordered by numeric ID")

	assert.Equal(t, []int{3, 5}, VerifyShards(dir, 1, 5))
	assert.Empty(t, VerifyShards(dir, 1, 2))

	path, n, err := MergeSection(root, models.SectionPUA)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, filepath.Join(root, "subsection_PUA", "subsection_pua.csv"), path)

	// the consolidated file is not picked up as a shard on re-merge
	_, n, err = MergeSection(root, models.SectionPUA)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestMergeSectionEmpty(t *testing.T) {
	_, _, err := MergeSection(t.TempDir(), models.Section11D)
	assert.ErrorIs(t, err, errors.ErrNoShardFiles)
}

func TestDuplicateReferences(t *testing.T) {
	dir := t.TempDir()
	records := makeRecords("A", 3)
	records = append(records, records[1], records[1], records[0])

	path, _, err := WriteShard(dir, models.Shard{ID: 1}, records)
	require.NoError(t, err)

	dups, err := DuplicateReferences(path)
	require.NoError(t, err)
	assert.Equal(t, []Duplicate{
		{ReferenceNum: records[0].ReferenceNum, Count: 2},
		{ReferenceNum: records[1].ReferenceNum, Count: 3},
	}, dups)
}
