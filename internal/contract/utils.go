package contract

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Score label constants.
const (
	IdenticalValue = "Identical" // Identical value
	MinorValue     = "Minor"     // Minor value
	ModerateValue  = "Moderate"  // Moderate value
	MajorValue     = "Major"     // Major value
)

// Label thresholds on the unnormalized diff score.
const (
	MinorThreshold    = 1.0
	ModerateThreshold = 10.0
)

// Color variables for console output.
var (
	IdenticalColor = color.New(color.FgGreen)           // IdenticalColor marks a perfect match.
	MinorColor     = color.New(color.FgCyan)            // MinorColor marks an informational difference.
	ModerateColor  = color.New(color.FgYellow)          // ModerateColor represents standard caution, not bold.
	MajorColor     = color.New(color.FgRed, color.Bold) // MajorColor represents a strong difference.
)

// GetPlainLabel returns a plain text label describing how different two documents
// are based on their diff score. This is the core logic used for
// CSV, JSON, and table printing. NaN scores are reported as Major.
func GetPlainLabel(score float64) string {
	switch {
	case math.IsNaN(score):
		return MajorValue
	case score <= 0:
		return IdenticalValue
	case score < MinorThreshold:
		return MinorValue
	case score < ModerateThreshold:
		return ModerateValue
	default:
		return MajorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case IdenticalValue:
		return IdenticalColor.Sprint(text)
	case MinorValue:
		return MinorColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Major"
		return MajorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// DisplayName shortens a document path for tables: the base name when it is
// unique among paths, the cleaned path otherwise.
func DisplayName(path string, paths []string) string {
	base := filepath.Base(path)
	for _, other := range paths {
		if other != path && filepath.Base(other) == base {
			return filepath.Clean(path)
		}
	}
	return base
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
