// Package recommend suggests pages that see similar traffic.
//
// Every page is described by the vector [hits, time spent, exit rate] and
// compared with every other page by cosine similarity. The input is a few
// dozen pages at most, so the pairwise O(n²) pass is fine.
package recommend

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mmynk/billcal/internal/models"
)

// DefaultLimit is how many similar pages are returned per page.
const DefaultLimit = 3

// TrackedPaths are the application pages considered for recommendations.
var TrackedPaths = []string{
	"/",
	"/dashboard",
	"/analytics",
	"/recommendations",
	"/calendar",
	"/profiles",
	"/bills",
}

// Similar is one recommended page with its similarity score.
type Similar struct {
	Page  string  `json:"page"`
	Score float64 `json:"score"`
}

// PageSimilarity lists the pages most similar to Page, best first.
type PageSimilarity struct {
	Page         string    `json:"page"`
	SimilarPages []Similar `json:"similarPages"`
}

// NormalizePath folds URL variants of the same page together:
// "/dashboard/index" and "/dashboard/" become "/dashboard", "/index" becomes "/".
func NormalizePath(path string) string {
	p := strings.Replace(path, "/index", "/", 1)
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// IsTrackedPath reports whether path normalises to one of TrackedPaths.
func IsTrackedPath(path string) bool {
	n := NormalizePath(path)
	for _, p := range TrackedPaths {
		if p == n {
			return true
		}
	}
	return false
}

// ParseExitRate parses a percentage such as "45%" or "45.5". Unparsable
// values count as 0.
func ParseExitRate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func vector(p models.PageView) [3]float64 {
	return [3]float64{p.Hits, p.TimeSpent, p.ExitRate}
}

// CosineSimilarity returns dot(a, b) / (|a| * |b|) over the page vectors.
// A page without any recorded activity has no direction; its similarity
// to anything is 0.
func CosineSimilarity(a, b models.PageView) float64 {
	va, vb := vector(a), vector(b)
	var dot, normA, normB float64
	for i := range va {
		dot += va[i] * vb[i]
		normA += va[i] * va[i]
		normB += vb[i] * vb[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Merge normalises labels, drops untracked pages and folds variants of the
// same page into one record. Hits and time are summed; the exit rate is
// averaged weighted by hits. Output order follows first appearance.
func Merge(pages []models.PageView) []models.PageView {
	index := make(map[string]int)
	var out []models.PageView
	for _, p := range pages {
		if !IsTrackedPath(p.Label) {
			continue
		}
		label := NormalizePath(p.Label)
		i, ok := index[label]
		if !ok {
			p.Label = label
			index[label] = len(out)
			out = append(out, p)
			continue
		}

		m := &out[i]
		hits := m.Hits + p.Hits
		switch {
		case hits > 0:
			m.ExitRate = (m.ExitRate*m.Hits + p.ExitRate*p.Hits) / hits
		default:
			m.ExitRate = math.Max(m.ExitRate, p.ExitRate)
		}
		m.Hits = hits
		m.TimeSpent += p.TimeSpent
	}
	return out
}

// Recommend returns, for every tracked page, the `limit` most similar other
// pages sorted by descending score (ties broken by page label). Each list
// has min(limit, N-1) entries. A limit <= 0 means DefaultLimit.
func Recommend(pages []models.PageView, limit int) []PageSimilarity {
	if limit <= 0 {
		limit = DefaultLimit
	}
	merged := Merge(pages)

	out := make([]PageSimilarity, 0, len(merged))
	for i, a := range merged {
		similar := make([]Similar, 0, len(merged)-1)
		for j, b := range merged {
			if i == j {
				continue
			}
			similar = append(similar, Similar{Page: b.Label, Score: CosineSimilarity(a, b)})
		}

		sort.Slice(similar, func(x, y int) bool {
			if similar[x].Score != similar[y].Score {
				return similar[x].Score > similar[y].Score
			}
			return similar[x].Page < similar[y].Page
		})
		if len(similar) > limit {
			similar = similar[:limit]
		}

		out = append(out, PageSimilarity{Page: a.Label, SimilarPages: similar})
	}
	return out
}
