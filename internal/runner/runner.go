// Package runner orchestrates document comparisons for the CLI and the MCP server.
package runner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/diffscore/core/algo"
	"github.com/huangsam/diffscore/core/tree"
	"github.com/huangsam/diffscore/internal/contract"
	"github.com/huangsam/diffscore/schema"
	"golang.org/x/sync/errgroup"
)

// Document is a decoded tree value and the name it is reported under.
type Document struct {
	Name  string
	Value any
}

// NewTreeScorer builds the tree scorer described by cfg.
func NewTreeScorer(cfg *contract.Config) (*tree.Scorer, error) {
	return tree.New(tree.Options{Window: cfg.Window, Members: cfg.Members})
}

// ScoreDocuments compares two decoded documents. The member breakdown is only
// computed when explain is set.
func ScoreDocuments(scorer *tree.Scorer, explain bool, left, right Document) schema.ComparisonResult {
	result := schema.ComparisonResult{
		Left:  left.Name,
		Right: right.Name,
		Score: scorer.Compare(left.Value, right.Value),
	}
	if explain {
		result.Members = scorer.Explain(left.Value, right.Value)
	}
	return result
}

// ExecuteCompare loads the documents at left and right and scores them.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, loader contract.DocumentLoader, left, right string) (schema.ComparisonResult, error) {
	scorer, err := NewTreeScorer(cfg)
	if err != nil {
		return schema.ComparisonResult{}, err
	}

	var a, b any
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		a, err = loader.Load(gCtx, left, cfg.Format)
		return err
	})
	g.Go(func() (err error) {
		b, err = loader.Load(gCtx, right, cfg.Format)
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.ComparisonResult{}, err
	}

	return ScoreDocuments(scorer, cfg.Explain, Document{Name: left, Value: a}, Document{Name: right, Value: b}), nil
}

// ExecuteRank scores every candidate against the reference with cfg.Workers
// concurrent workers and returns the closest cfg.ResultLimit candidates first.
func ExecuteRank(ctx context.Context, cfg *contract.Config, loader contract.DocumentLoader, reference string, candidates []string) ([]schema.ComparisonResult, error) {
	scorer, err := NewTreeScorer(cfg)
	if err != nil {
		return nil, err
	}
	refValue, err := loader.Load(ctx, reference, cfg.Format)
	if err != nil {
		return nil, err
	}
	ref := Document{Name: reference, Value: refValue}

	results, err := runPool(ctx, cfg.Workers, len(candidates), func(ctx context.Context, i int) (schema.ComparisonResult, error) {
		v, err := loader.Load(ctx, candidates[i], cfg.Format)
		if err != nil {
			return schema.ComparisonResult{}, err
		}
		return ScoreDocuments(scorer, cfg.Explain, ref, Document{Name: candidates[i], Value: v}), nil
	})
	if err != nil {
		return nil, err
	}
	return algo.RankResults(results, cfg.ResultLimit), nil
}

// RankDocuments is ExecuteRank over documents that are already decoded.
func RankDocuments(ctx context.Context, cfg *contract.Config, scorer *tree.Scorer, ref Document, candidates []Document) ([]schema.ComparisonResult, error) {
	results, err := runPool(ctx, cfg.Workers, len(candidates), func(_ context.Context, i int) (schema.ComparisonResult, error) {
		return ScoreDocuments(scorer, cfg.Explain, ref, candidates[i]), nil
	})
	if err != nil {
		return nil, err
	}
	return algo.RankResults(results, cfg.ResultLimit), nil
}

// runPool runs fn for every index in [0, n) with at most workers goroutines.
// Each goroutine writes to a unique index of the result slice.
func runPool(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) (schema.ComparisonResult, error)) ([]schema.ComparisonResult, error) {
	results := make([]schema.ComparisonResult, n)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i := range n {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := fn(gCtx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// documentExts are the extensions picked up when a directory is expanded.
var documentExts = map[string]struct{}{".json": {}, ".yaml": {}, ".yml": {}}

// ExpandCandidates resolves candidate paths for ranking. Files are kept as given,
// directories contribute their JSON and YAML files in lexical order. The
// reference and repeated paths are dropped.
func ExpandCandidates(paths []string, reference string) ([]string, error) {
	seen := map[string]struct{}{filepath.Clean(reference): {}}
	var out []string
	add := func(path string) {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := documentExts[strings.ToLower(filepath.Ext(p))]; ok {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
