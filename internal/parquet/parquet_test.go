package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/diffscore/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []schema.ComparisonResult {
	return []schema.ComparisonResult{
		{Left: "ref.json", Right: "same.json", Score: 0},
		{
			Left:  "ref.json",
			Right: "near.json",
			Score: 2.5,
			Members: []schema.MemberScore{
				{Name: "id", Weight: 2, Mode: schema.RecurseMode, Score: 1, Contribution: 2},
				{Name: "tags", Weight: 1, Mode: schema.EqualityMode, Score: 0.5, Contribution: 0.5},
			},
		},
	}
}

func plainLabel(score float64) string {
	if score == 0 {
		return "Identical"
	}
	return "Minor"
}

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err, "Should be able to open output file")
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestComparisonRowStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(ComparisonRow))
	require.NotNil(t, schema)

	for _, colName := range []string{"rank", "left", "right", "score", "label", "compared_at", "members"} {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestMemberRowStructTags(t *testing.T) {
	schema := parquet.SchemaOf(new(MemberRow))
	for _, colName := range []string{"rank", "name", "mode", "weight", "score", "contribution"} {
		_, ok := schema.Lookup(colName)
		assert.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestConvertComparisonResults(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows, err := ConvertComparisonResults(sampleResults(), now, plainLabel)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "same.json", rows[0].Right)
	assert.Equal(t, "Identical", rows[0].Label)
	assert.Nil(t, rows[0].Members, "no breakdown should stay null")

	assert.Equal(t, int32(2), rows[1].Rank)
	assert.Equal(t, "Minor", rows[1].Label)
	assert.Equal(t, now, rows[1].ComparedAt)
	require.NotNil(t, rows[1].Members)
	assert.Contains(t, *rows[1].Members, `"name":"tags"`)
}

func TestConvertMemberScores(t *testing.T) {
	rows := ConvertMemberScores(sampleResults())
	require.Len(t, rows, 2)
	assert.Equal(t, MemberRow{Rank: 2, Name: "id", Mode: "recurse", Weight: 2, Score: 1, Contribution: 2}, rows[0])
	assert.Equal(t, "eq", rows[1].Mode)
}

func TestWriteComparisonsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "comparisons.parquet")
	now := time.Now()
	data, err := ConvertComparisonResults(sampleResults(), now, plainLabel)
	require.NoError(t, err)

	require.NoError(t, WriteComparisonsParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	readData := readRows[ComparisonRow](t, outputPath)
	require.Len(t, readData, len(data), "Should read all records")
	for i := range data {
		assert.Equal(t, data[i].Rank, readData[i].Rank)
		assert.Equal(t, data[i].Right, readData[i].Right)
		assert.InDelta(t, data[i].Score, readData[i].Score, 1e-9)
		assert.WithinDuration(t, data[i].ComparedAt, readData[i].ComparedAt, time.Microsecond)
		if data[i].Members == nil {
			assert.Nil(t, readData[i].Members, "Members should be nil")
		} else {
			require.NotNil(t, readData[i].Members)
			assert.Equal(t, *data[i].Members, *readData[i].Members)
		}
	}
}

func TestWriteMembersParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "members.parquet")
	data := ConvertMemberScores(sampleResults())
	require.NoError(t, WriteMembersParquet(data, outputPath))

	readData := readRows[MemberRow](t, outputPath)
	assert.Equal(t, data, readData)
}

func TestWriteComparisonsParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteComparisonsParquet([]ComparisonRow{}, outputPath), "Writing empty data should not produce error")

	_, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
}

func TestWriteComparisonsParquet_InvalidPath(t *testing.T) {
	err := WriteComparisonsParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "out.parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}
