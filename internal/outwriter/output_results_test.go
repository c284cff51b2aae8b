package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() []schema.ComparisonResult {
	return []schema.ComparisonResult{
		{Left: "fixtures/ref.json", Right: "fixtures/same.json", Score: 0},
		{
			Left:  "fixtures/ref.json",
			Right: "fixtures/near.json",
			Score: 4.5,
			Members: []schema.MemberScore{
				{Name: "id", Weight: 1, Mode: schema.RecurseMode, Score: 0.5, Contribution: 0.5},
				{Name: "name", Weight: 2, Mode: schema.RecurseMode, Score: 2, Contribution: 4},
				{Name: "tags", Weight: 1, Mode: schema.EqualityMode, Score: 0, Contribution: 0},
			},
		},
	}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:    output,
		Precision: 2,
		Workers:   4,
		Width:     120,
		UseColors: false,
	}
}

func TestWriteResultsTable(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.Explain = true

	var buf bytes.Buffer
	require.NoError(t, writeResultsTable(&buf, testResults(), cfg, createFormatter(cfg.Precision)))

	out := buf.String()
	for _, header := range []string{"RANK", "LEFT", "RIGHT", "SCORE", "LABEL", "EXPLAIN"} {
		assert.Contains(t, strings.ToUpper(out), header)
	}
	for _, want := range []string{"ref.json", "near.json", "4.50", "Identical", "Moderate", "name > id", "None"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "fixtures/", "unique base names should be shown without directories")
}

func TestWriteMembersTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMembersTable(&buf, testResults()[1].Members, createFormatter(1)))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "CONTRIBUTION")
	assert.Contains(t, out, "tags")
	assert.Contains(t, out, "eq")
	assert.Contains(t, out, "4.0")
}

func TestFormatTopMembers(t *testing.T) {
	tests := []struct {
		name     string
		members  []schema.MemberScore
		expected string
	}{
		{name: "no members", expected: "None"},
		{name: "all zero", members: []schema.MemberScore{{Name: "a"}}, expected: "None"},
		{name: "ordered by contribution", members: testResults()[1].Members, expected: "name > id"},
		{
			name: "limited to top three",
			members: []schema.MemberScore{
				{Name: "a", Contribution: 1},
				{Name: "b", Contribution: 4},
				{Name: "c", Contribution: 3},
				{Name: "d", Contribution: 2},
			},
			expected: "b > c > d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTopMembers(tt.members))
		})
	}
}

func TestWriteCSVResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResults(&buf, testResults(), createFormatter(2)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	assert.Equal(t, []string{"rank", "left", "right", "score", "label", "members"}, records[0])
	assert.Equal(t, []string{"1", "fixtures/ref.json", "fixtures/same.json", "0.00", "Identical", ""}, records[1])
	assert.Equal(t, "id=0.50|name=4.00|tags=0.00", records[2][5])
}

func TestToJSONResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, toJSONResults(testResults())))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, float64(1), decoded[0]["rank"])
	assert.Equal(t, "Identical", decoded[0]["label"])
	assert.Equal(t, "fixtures/same.json", decoded[0]["right"])
	assert.NotContains(t, decoded[0], "members")
	assert.Equal(t, 4.5, decoded[1]["score"])
	assert.Len(t, decoded[1]["members"], 3)
}

func TestPrintComparisonResultToFile(t *testing.T) {
	tests := []struct {
		name   string
		output schema.OutputMode
		check  func(t *testing.T, content string)
	}{
		{
			name:   "text",
			output: schema.TextOut,
			check: func(t *testing.T, content string) {
				assert.Contains(t, strings.ToUpper(content), "MEMBER")
				assert.Contains(t, content, "Comparison completed in")
			},
		},
		{
			name:   "json",
			output: schema.JSONOut,
			check: func(t *testing.T, content string) {
				var decoded map[string]any
				require.NoError(t, json.Unmarshal([]byte(content), &decoded))
				assert.Equal(t, "Moderate", decoded["label"])
			},
		},
		{
			name:   "csv",
			output: schema.CSVOut,
			check: func(t *testing.T, content string) {
				assert.True(t, strings.HasPrefix(content, "rank,left,right"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.output)
			cfg.Explain = true
			cfg.OutputFile = filepath.Join(t.TempDir(), "out")

			require.NoError(t, NewOutWriter().WriteComparison(testResults()[1], cfg, time.Second))
			content, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			tt.check(t, string(content))
		})
	}
}

func TestPrintRankingResultsText(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "ranking.txt")

	require.NoError(t, NewOutWriter().WriteRanking(testResults(), cfg, time.Millisecond))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Showing top 2 candidates")
	assert.Contains(t, string(content), "with 4 workers")
	assert.NotContains(t, strings.ToUpper(string(content)), "EXPLAIN")
}

func TestPrintRankingResultsParquet(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "ranking.parquet")

	require.NoError(t, NewOutWriter().WriteRanking(testResults(), cfg, time.Millisecond))

	info, err := os.Stat(cfg.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	_, err = os.Stat(MembersParquetPath(cfg.OutputFile))
	require.NoError(t, err, "member breakdown should be exported next to the results")
}

func TestPrintRankingResultsParquetWithoutMembers(t *testing.T) {
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "ranking.parquet")

	require.NoError(t, PrintRankingResults(testResults()[:1], cfg, 0))
	_, err := os.Stat(MembersParquetPath(cfg.OutputFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMembersParquetPath(t *testing.T) {
	assert.Equal(t, "out/rank.members.parquet", MembersParquetPath("out/rank.parquet"))
	assert.Equal(t, "rank.members.parquet", MembersParquetPath("rank"))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		explain  bool
		expected int
	}{
		{name: "narrow clamps to minimum", width: 40, expected: minNameWidth},
		{name: "wide clamps to maximum", width: 400, expected: maxNameWidth},
		{name: "split remaining space", width: 125, expected: 40},
		{name: "explain column reserved", width: 125, explain: true, expected: 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Explain: tt.explain}
			assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg))
		})
	}
}

func TestPrintComparisonResultNonFiniteJSON(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
	result := schema.ComparisonResult{
		Left:  "a.json",
		Right: "b.json",
		Score: math.Inf(1),
		Members: []schema.MemberScore{
			{Name: "x", Weight: 1, Mode: schema.RecurseMode, Score: math.Inf(1), Contribution: math.Inf(1)},
			{Name: "y", Weight: 1, Mode: schema.RecurseMode, Score: math.NaN(), Contribution: math.NaN()},
		},
	}

	require.NoError(t, NewOutWriter().WriteComparison(result, cfg, time.Second))
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, float64(1), decoded["rank"])
	assert.Equal(t, "Major", decoded["label"])
	assert.Equal(t, "+Inf", decoded["score"])

	members, ok := decoded["members"].([]any)
	require.True(t, ok)
	require.Len(t, members, 2)
	assert.Equal(t, "+Inf", members[0].(map[string]any)["contribution"])
	assert.Equal(t, "NaN", members[1].(map[string]any)["score"])
	assert.Equal(t, float64(1), members[1].(map[string]any)["weight"])
}
