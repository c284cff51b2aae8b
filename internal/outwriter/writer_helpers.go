package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
)

// writeWithFile opens the output file (or stdout when empty), runs writer
// against it and reports the destination on stderr.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		if file != os.Stdout {
			_ = os.Remove(outputFile)
		}
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader creates a CSV writer, writes the header and then
// delegates the data rows to writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter returns the score formatter for the configured precision.
// Infinite and NaN scores keep their symbolic names.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Sprint(v)
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
}

// formatMembers renders a member breakdown as "name=contribution|..." for CSV cells.
func formatMembers(members []schema.MemberScore, fmtFloat func(float64) string) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.Name + "=" + fmtFloat(m.Contribution)
	}
	return strings.Join(parts, "|")
}
