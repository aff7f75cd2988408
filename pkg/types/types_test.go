package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "Alice",
			expected: "alice",
		},
		{
			name:     "spaces become underscores",
			input:    "works at",
			expected: "works_at",
		},
		{
			name:     "mixed case and spaces",
			input:    "San Francisco Bay Area",
			expected: "san_francisco_bay_area",
		},
		{
			name:     "surrounding whitespace trimmed first",
			input:    "  Acme Corp  ",
			expected: "acme_corp",
		},
		{
			name:     "already normalized",
			input:    "loves_hiking",
			expected: "loves_hiking",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeTriple(t *testing.T) {
	got := NormalizeTriple(Triple{
		Source:       "Alice",
		Relationship: "Works At",
		Destination:  "Acme Corp",
	})
	assert.Equal(t, Triple{
		Source:       "alice",
		Relationship: "works_at",
		Destination:  "acme_corp",
	}, got)
}

func TestSearchHitTriple(t *testing.T) {
	hit := SearchHit{
		Source:        "alice",
		SourceID:      "1",
		Relationship:  "works_at",
		RelationID:    "2",
		Destination:   "acme",
		DestinationID: "3",
		Similarity:    0.91,
	}
	assert.Equal(t, Triple{Source: "alice", Relationship: "works_at", Destination: "acme"}, hit.Triple())
}
