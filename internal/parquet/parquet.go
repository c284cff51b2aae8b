// Package parquet provides data structures and functions for exporting diffscore
// results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/diffscore/schema"
	"github.com/parquet-go/parquet-go"
)

// ComparisonRow represents one scored pair of documents.
type ComparisonRow struct {
	// Rank is the 1-based position of the pair in the output
	Rank int32 `parquet:"rank,snappy"`

	// Left is the name of the reference document
	Left string `parquet:"left,snappy"`

	// Right is the name of the compared document
	Right string `parquet:"right,snappy"`

	// Score is the unnormalized diff score (0 means identical)
	Score float64 `parquet:"score,snappy"`

	// Label is the plain label derived from the score
	Label string `parquet:"label,snappy"`

	// ComparedAt is when the comparison ran (stored as TIMESTAMP with nanosecond precision)
	ComparedAt time.Time `parquet:"compared_at,snappy"`

	// Members contains the JSON-encoded member breakdown (nullable)
	Members *string `parquet:"members,optional,snappy"`
}

// MemberRow represents the contribution of one root member to a scored pair.
type MemberRow struct {
	Rank         int32   `parquet:"rank,snappy"`
	Name         string  `parquet:"name,snappy"`
	Mode         string  `parquet:"mode,snappy"`
	Weight       float64 `parquet:"weight,snappy"`
	Score        float64 `parquet:"score,snappy"`
	Contribution float64 `parquet:"contribution,snappy"`
}

// WriteComparisonsParquet writes a slice of ComparisonRow structs to a Parquet file.
func WriteComparisonsParquet(data []ComparisonRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteMembersParquet writes a slice of MemberRow structs to a Parquet file.
func WriteMembersParquet(data []MemberRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows creates outputPath and writes every row with a schema inferred from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ConvertComparisonResults converts ranked results to ComparisonRow for Parquet export.
// labelFn maps a score to its label so the export matches the CSV and JSON outputs.
func ConvertComparisonResults(results []schema.ComparisonResult, comparedAt time.Time, labelFn func(float64) string) ([]ComparisonRow, error) {
	rows := make([]ComparisonRow, len(results))
	for i, r := range results {
		rows[i] = ComparisonRow{
			Rank:       int32(i + 1),
			Left:       r.Left,
			Right:      r.Right,
			Score:      r.Score,
			Label:      labelFn(r.Score),
			ComparedAt: comparedAt,
		}
		if len(r.Members) > 0 {
			encoded, err := json.Marshal(r.Members)
			if err != nil {
				return nil, fmt.Errorf("failed to encode members of %s: %w", r.Right, err)
			}
			members := string(encoded)
			rows[i].Members = &members
		}
	}
	return rows, nil
}

// ConvertMemberScores flattens the member breakdown of every result into MemberRow.
func ConvertMemberScores(results []schema.ComparisonResult) []MemberRow {
	var rows []MemberRow
	for i, r := range results {
		for _, m := range r.Members {
			rows = append(rows, MemberRow{
				Rank:         int32(i + 1),
				Name:         m.Name,
				Mode:         string(m.Mode),
				Weight:       m.Weight,
				Score:        m.Score,
				Contribution: m.Contribution,
			})
		}
	}
	return rows
}
