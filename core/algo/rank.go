package algo

import (
	"math"
	"sort"

	"github.com/huangsam/diffscore/schema"
)

// RankResults sorts comparison results by score in ascending order (closest match
// first) and returns the top 'limit' results. Results with a NaN score sort last.
// Ties keep their input order. A non-positive limit returns everything.
func RankResults(results []schema.ComparisonResult, limit int) []schema.ComparisonResult {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Score, results[j].Score
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
