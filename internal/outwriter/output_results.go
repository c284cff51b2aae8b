package outwriter

import (
	"cmp"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/internal/parquet"
	"github.com/huangsam/diffscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const topNMembers = 3

// jsonResult is a ComparisonResult with its rank and label attached.
type jsonResult struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	schema.ComparisonResult
}

// MarshalJSON prefixes the encoded ComparisonResult with rank and label. Without
// it the embedded MarshalJSON would be promoted and drop both fields.
func (r jsonResult) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
	}{r.Rank, r.Label})
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(r.ComparisonResult)
	if err != nil {
		return nil, err
	}
	// Both are non-empty objects: splice "{rank,label" + "," + "left,...}".
	out := append(head[:len(head)-1], ',')
	return append(out, body[1:]...), nil
}

// PrintComparisonResult outputs one comparison, dispatching based on the output format configured.
// With explain enabled the text output adds a member breakdown table.
func PrintComparisonResult(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	results := []schema.ComparisonResult{result}

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toJSONResults(results)[0])
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeResultsCSV(results, cfg, fmtFloat)
	case schema.ParquetOut:
		return writeResultsParquet(results, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeResultsTable(w, results, cfg, fmtFloat); err != nil {
				return err
			}
			if cfg.Explain && len(result.Members) > 0 {
				if err := writeMembersTable(w, result.Members, fmtFloat); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "Comparison completed in %v\n", duration)
			return err
		}, "Wrote table")
	}
}

// PrintRankingResults outputs ranked comparisons, dispatching based on the output format configured.
func PrintRankingResults(results []schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, toJSONResults(results))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeResultsCSV(results, cfg, fmtFloat)
	case schema.ParquetOut:
		return writeResultsParquet(results, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if err := writeResultsTable(w, results, cfg, fmtFloat); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Showing top %d candidates\nRanking completed in %v with %d workers\n", len(results), duration, cfg.Workers)
			return err
		}, "Wrote table")
	}
}

func toJSONResults(results []schema.ComparisonResult) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Rank:             i + 1,
			Label:            contract.GetPlainLabel(r.Score),
			ComparisonResult: r,
		}
	}
	return out
}

// writeResultsTable generates and writes the human-readable table.
func writeResultsTable(w io.Writer, results []schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Left", "Right", "Score", "Label"}
	if cfg.Explain {
		headers = append(headers, "Explain")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	names := make([]string, 0, len(results)*2)
	for _, r := range results {
		names = append(names, r.Left, r.Right)
	}
	width := GetMaxTableNameWidth(cfg)

	var data [][]string
	for i, r := range results {
		label := contract.GetPlainLabel(r.Score)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Score)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(contract.DisplayName(r.Left, names), width),
			contract.TruncatePath(contract.DisplayName(r.Right, names), width),
			fmtFloat(r.Score),
			label,
		}
		if cfg.Explain {
			row = append(row, formatTopMembers(r.Members))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeMembersTable writes the member breakdown of one comparison.
func writeMembersTable(w io.Writer, members []schema.MemberScore, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Member", "Mode", "Weight", "Score", "Contribution"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, m := range members {
		data = append(data, []string{
			m.Name,
			string(m.Mode),
			fmtFloat(m.Weight),
			fmtFloat(m.Score),
			fmtFloat(m.Contribution),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// formatTopMembers names the members contributing most to a score, largest first.
func formatTopMembers(members []schema.MemberScore) string {
	var top []schema.MemberScore
	for _, m := range members {
		if m.Contribution > 0 {
			top = append(top, m)
		}
	}
	if len(top) == 0 {
		return "None"
	}
	slices.SortStableFunc(top, func(a, b schema.MemberScore) int {
		return cmp.Compare(b.Contribution, a.Contribution)
	})

	parts := make([]string, 0, topNMembers)
	for _, m := range top[:min(len(top), topNMembers)] {
		parts = append(parts, m.Name)
	}
	return strings.Join(parts, " > ")
}

// writeResultsCSV handles opening the file and writing one CSV row per result.
func writeResultsCSV(results []schema.ComparisonResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVResults(w, results, fmtFloat)
	}, "Wrote CSV")
}

func writeCSVResults(w io.Writer, results []schema.ComparisonResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "left", "right", "score", "label", "members"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range results {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Left,
				r.Right,
				fmtFloat(r.Score),
				contract.GetPlainLabel(r.Score),
				formatMembers(r.Members, fmtFloat),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeResultsParquet exports results to cfg.OutputFile. When the results carry
// a member breakdown it goes to a sibling file ending in .members.parquet.
func writeResultsParquet(results []schema.ComparisonResult, cfg *contract.Config) error {
	rows, err := parquet.ConvertComparisonResults(results, time.Now(), contract.GetPlainLabel)
	if err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	if err := parquet.WriteComparisonsParquet(rows, cfg.OutputFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)

	members := parquet.ConvertMemberScores(results)
	if len(members) == 0 {
		return nil
	}
	membersFile := MembersParquetPath(cfg.OutputFile)
	if err := parquet.WriteMembersParquet(members, membersFile); err != nil {
		return fmt.Errorf("error writing Parquet output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", membersFile)
	return nil
}

// MembersParquetPath derives the member breakdown file from the main Parquet output path.
func MembersParquetPath(outputFile string) string {
	return strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".members.parquet"
}
