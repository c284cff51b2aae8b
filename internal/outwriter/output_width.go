package outwriter

import (
	"os"

	"github.com/huangsam/diffscore/internal/contract"
	"golang.org/x/term"
)

// Bounds for a single document name column.
const (
	minNameWidth = 15
	maxNameWidth = 60
)

// GetMaxTableNameWidth calculates the maximum width of one document name column
// in table output based on terminal width and table configuration.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Score + Label with borders/padding
	baseWidth := 25 + 20
	if cfg.Explain {
		baseWidth += 35 // Explain column with formatting
	}

	// Left and Right share what remains
	available := (termWidth - baseWidth) / 2
	return min(max(available, minNameWidth), maxNameWidth)
}
