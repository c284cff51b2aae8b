// Package main provides a performance benchmarking tool for the diffscore CLI.
// It generates synthetic JSON corpora of increasing size, times the compare
// and rank commands on each of them, treats the first successful run as cold
// and averages the rest as warm, and writes a CSV for performance analysis.
//
// Prerequisites:
// - diffscore binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for the generated corpora (defaults to a temp dir)
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the cold run and the average of warm runs for one command.
type BenchmarkResult struct {
	Corpus   string
	Command  string
	ColdTime string
	WarmTime string
}

// Corpus describes one generated set of documents.
type Corpus struct {
	Name       string
	Items      int // Array length inside every document
	Keys       int // Object members per array item
	Candidates int // Documents ranked against the reference
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Workers int
	Runs    int
	Corpora []Corpus
}

func main() {
	if len(os.Args) > 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := ""
	if len(os.Args) == 2 {
		workDir = os.Args[1]
	} else {
		dir, err := os.MkdirTemp("", "diffscore-benchmark-")
		if err != nil {
			fmt.Printf("Failed to create work dir: %v\n", err)
			os.Exit(1)
		}
		workDir = dir
	}

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 5 * time.Minute,
		Workers: 8,
		Runs:    4,
		Corpora: []Corpus{
			{Name: "small", Items: 10, Keys: 5, Candidates: 20},
			{Name: "medium", Items: 200, Keys: 10, Candidates: 100},
			{Name: "large", Items: 2000, Keys: 20, Candidates: 200},
		},
	}

	if _, err := exec.LookPath("diffscore"); err != nil {
		fmt.Printf("Prerequisites check failed: diffscore binary not found in PATH\n")
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}
	if err := saveResults(results, config.WorkDir); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// runBenchmarks generates every corpus and times both commands on it.
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d corpora, %v timeout, %d workers, %d runs\n",
		len(config.Corpora), config.Timeout, config.Workers, config.Runs)

	for _, corpus := range config.Corpora {
		fmt.Printf("Generating %s corpus\n", corpus.Name)
		ref, candidates, err := generateCorpus(filepath.Join(config.WorkDir, corpus.Name), corpus)
		if err != nil {
			return nil, err
		}

		results = append(results,
			runBenchmarkSuite(config, corpus.Name, "compare", []string{"compare", ref, candidates[0]}),
			runBenchmarkSuite(config, corpus.Name, "rank", append([]string{"rank", "--workers", strconv.Itoa(config.Workers), "--limit", "10", ref}, candidates...)),
		)
	}
	return results, nil
}

// generateCorpus writes a reference document and mutated candidates under dir.
func generateCorpus(dir string, corpus Corpus) (ref string, candidates []string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, err
	}
	rng := rand.New(rand.NewPCG(uint64(corpus.Items), uint64(corpus.Keys)))

	base := make([]any, corpus.Items)
	for i := range base {
		item := make(map[string]any, corpus.Keys)
		for k := range corpus.Keys {
			item["key"+strconv.Itoa(k)] = rng.IntN(1000)
		}
		item["label"] = fmt.Sprintf("item-%d", i)
		base[i] = item
	}
	ref = filepath.Join(dir, "reference.json")
	if err := writeDocument(ref, map[string]any{"name": corpus.Name, "items": base}); err != nil {
		return "", nil, err
	}

	for c := range corpus.Candidates {
		items := make([]any, len(base))
		copy(items, base)
		// Mutate a growing share of items so candidates spread out in the ranking
		for range c % (corpus.Items + 1) {
			i := rng.IntN(len(items))
			items[i] = map[string]any{"label": "changed", "key0": rng.IntN(1000)}
		}
		path := filepath.Join(dir, fmt.Sprintf("candidate_%04d.json", c))
		if err := writeDocument(path, map[string]any{"name": corpus.Name, "items": items}); err != nil {
			return "", nil, err
		}
		candidates = append(candidates, path)
	}
	return ref, candidates, nil
}

func writeDocument(path string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs one command config.Runs times and summarizes the timings.
func runBenchmarkSuite(config BenchmarkConfig, corpus, command string, args []string) BenchmarkResult {
	fmt.Printf("Running %s on %s corpus (%d runs)\n", command, corpus, config.Runs)

	times := runBenchmark(config, command, args)
	result := BenchmarkResult{Corpus: corpus, Command: command, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
	if len(times) > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", times[0])
	}
	if warm := times[min(1, len(times)):]; len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes a diffscore command several times and returns the
// durations of the successful runs in seconds.
func runBenchmark(config BenchmarkConfig, command string, args []string) []float64 {
	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "diffscore", args...).CombinedOutput()
		elapsed := time.Since(start)
		cancel()

		if err == nil && isSuccess(output, command) {
			times = append(times, elapsed.Seconds())
		}
	}
	return times
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte, command string) bool {
	completionPhrase := "Comparison completed in"
	if command == "rank" {
		completionPhrase = "Ranking completed in"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file in dir.
func saveResults(results []BenchmarkResult, dir string) error {
	filename := filepath.Join(dir, fmt.Sprintf("diffscore_benchmark_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"corpus", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Corpus, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"compare", "rank"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: Cold: %s, Warm: %s\n", result.Corpus, result.ColdTime, result.WarmTime)
			}
		}
	}
}
