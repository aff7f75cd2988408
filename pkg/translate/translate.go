// Package translate rewrites Neo4j-dialect Cypher into the form accepted by
// FalkorDB, so the same query templates run unmodified against either
// backend. The pattern set is small and fixed; anything unmatched passes
// through unchanged.
package translate

import (
	"fmt"
	"regexp"
)

// DefaultRelationType is used by the procedure-call rewrite when the
// relationship-type parameter named in the query is missing from params.
const DefaultRelationType = "RELATED_TO"

var (
	// elementId(n) is Neo4j-only; FalkorDB uses id(n). Whitespace before
	// the parenthesis is tolerated.
	elementIDPattern = regexp.MustCompile(`\belementId\s*\(`)

	// FalkorDB's round() takes a single argument. The precision argument is
	// dropped. Non-greedy multi-line matching tolerates nested parentheses
	// and newlines inside the rounded expression.
	roundPattern = regexp.MustCompile(`(?s)round\((.+?),\s*\d+\)\s+AS`)

	// CALL proc(source, $relParam, {...}, propsOrParam, target[, {...}]) YIELD rel
	// FalkorDB has no APOC; the call is rewritten to a direct MERGE with the
	// relationship type resolved from params.
	mergeCallPattern = regexp.MustCompile(
		`CALL\s+[\w.]+\(\s*(\w+)\s*,\s*\$(\w+)\s*,\s*\{[^}]*\}\s*,\s*(?:\$\w+|\w+|\{[^}]*\})\s*,\s*(\w+)\s*(?:,\s*\{[^}]*\}\s*)?\)\s*YIELD\s+(\w+)`)
)

// Translate applies the three dialect rewrites to query and returns the
// rewritten text along with params. The rewrites are independent and
// order-insensitive. When the procedure-call rewrite fires, the consumed
// relationship-type parameter is removed from params (the caller's map is
// mutated); no other parameter entry is ever touched.
func Translate(query string, params map[string]any) (string, map[string]any) {
	query = elementIDPattern.ReplaceAllString(query, "id(")
	query = roundPattern.ReplaceAllString(query, "round($1) AS")

	query = mergeCallPattern.ReplaceAllStringFunc(query, func(match string) string {
		groups := mergeCallPattern.FindStringSubmatch(match)
		sourceVar, relParam, targetVar, yieldVar := groups[1], groups[2], groups[3], groups[4]

		relType := DefaultRelationType
		if v, ok := params[relParam]; ok {
			if s, ok := v.(string); ok && s != "" {
				relType = s
			}
			delete(params, relParam)
		}

		// Backtick-quoted so relationship types with special characters
		// survive as labels.
		return fmt.Sprintf("MERGE (%s)-[%s:`%s`]->(%s)", sourceVar, yieldVar, relType, targetVar)
	})

	return query, params
}
