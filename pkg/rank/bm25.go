// Package rank implements the lexical re-ranking pass applied after
// embedding recall. Result triples are scored as 3-token synthetic
// documents with BM25, which is coarse but directionally correct for
// final precision ordering.
package rank

import (
	"math"
	"sort"
	"strings"
)

// BM25 free parameters.
const (
	K1 = 1.5
	B  = 0.75
)

// BM25 scores documents against a query and returns them ordered by
// descending score. Ties keep first-seen order, so the caller's
// accumulation order breaks ties. Documents are token slices; the query is
// split on whitespace.
func BM25(docs [][]string, query string) [][]string {
	if len(docs) == 0 {
		return nil
	}

	queryTerms := strings.Fields(query)

	totalLen := 0
	df := make(map[string]int)
	for _, doc := range docs {
		totalLen += len(doc)
		seen := make(map[string]bool)
		for _, term := range doc {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}
	avgDocLen := float64(totalLen) / float64(len(docs))

	n := float64(len(docs))
	idf := func(term string) float64 {
		d := float64(df[term])
		return math.Log((n-d+0.5)/(d+0.5) + 1)
	}

	type scoredDoc struct {
		doc   []string
		score float64
		order int
	}

	scored := make([]scoredDoc, len(docs))
	for i, doc := range docs {
		tf := make(map[string]float64)
		for _, term := range doc {
			tf[term]++
		}

		score := 0.0
		for _, term := range queryTerms {
			f := tf[term]
			if f == 0 {
				continue
			}
			norm := f + K1*(1-B+B*float64(len(doc))/avgDocLen)
			score += idf(term) * f * (K1 + 1) / norm
		}
		scored[i] = scoredDoc{doc: doc, score: score, order: i}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([][]string, len(scored))
	for i, s := range scored {
		ranked[i] = s.doc
	}
	return ranked
}
