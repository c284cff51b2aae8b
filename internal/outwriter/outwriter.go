// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the commands.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComparison prints a single comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonResult(result, cfg, duration)
}

// WriteRanking prints ranked comparisons using the configured output format.
func (ow *OutWriter) WriteRanking(results []schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintRankingResults(results, cfg, duration)
}
