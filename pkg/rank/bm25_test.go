package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBM25RanksSharedTermsFirst(t *testing.T) {
	docs := [][]string{
		{"bob", "lives_in", "paris"},
		{"alice", "works_at", "acme"},
		{"carol", "loves", "hiking"},
	}

	ranked := BM25(docs, "where does alice work alice works_at")

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"alice", "works_at", "acme"}, ranked[0])
}

func TestBM25TermFrequency(t *testing.T) {
	// The document repeating the query term scores higher than the one
	// mentioning it once.
	docs := [][]string{
		{"acme", "hires", "people"},
		{"acme", "acquired", "acme"},
		{"bob", "lives_in", "paris"},
	}

	ranked := BM25(docs, "acme")

	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"acme", "acquired", "acme"}, ranked[0])
	assert.Equal(t, []string{"acme", "hires", "people"}, ranked[1])
}

func TestBM25TiesKeepFirstSeenOrder(t *testing.T) {
	docs := [][]string{
		{"alice", "knows", "bob"},
		{"carol", "knows", "dave"},
	}

	// Neither document shares a term with the query: all scores are zero
	// and the input order must survive.
	ranked := BM25(docs, "unrelated query")

	require.Len(t, ranked, 2)
	assert.Equal(t, docs[0], ranked[0])
	assert.Equal(t, docs[1], ranked[1])
}

func TestBM25Empty(t *testing.T) {
	assert.Nil(t, BM25(nil, "anything"))
	assert.Nil(t, BM25([][]string{}, "anything"))
}
