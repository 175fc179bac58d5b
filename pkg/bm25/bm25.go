// Package bm25 provides an in-memory Okapi BM25 index over tokenized
// document collections.
//
// The index is built once over a corpus and is immutable afterwards, so it
// can be queried from multiple goroutines without locking. Scores are raw
// and unbounded; callers that need to combine them with bounded signals
// should normalize them first.
package bm25

import (
	"math"
	"strings"
	"unicode"
)

// Okapi BM25 parameters. The epsilon floor keeps very common terms from
// contributing negative IDF values, matching the behavior of the usual
// Okapi implementations.
const (
	defaultK1      = 1.5
	defaultB       = 0.75
	defaultEpsilon = 0.25
)

// Tokenize lowercases the text and splits it into maximal runs of Unicode
// letters, digits, and underscores. Punctuation and whitespace are dropped.
func Tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// Index is an immutable Okapi BM25 index over a document corpus.
type Index struct {
	k1 float64
	b  float64

	corpusSize int
	avgDocLen  float64
	docLens    []float64
	termFreqs  []map[string]int
	idf        map[string]float64
}

// NewIndex builds an index over pre-tokenized documents. Document order is
// preserved: Scores returns one value per document in the order given here.
func NewIndex(docs [][]string) *Index {
	ix := &Index{
		k1:         defaultK1,
		b:          defaultB,
		corpusSize: len(docs),
		docLens:    make([]float64, len(docs)),
		termFreqs:  make([]map[string]int, len(docs)),
		idf:        make(map[string]float64),
	}

	docFreq := make(map[string]int)
	var totalLen float64

	for i, doc := range docs {
		ix.docLens[i] = float64(len(doc))
		totalLen += float64(len(doc))

		freqs := make(map[string]int, len(doc))
		for _, term := range doc {
			freqs[term]++
		}
		ix.termFreqs[i] = freqs

		for term := range freqs {
			docFreq[term]++
		}
	}

	if ix.corpusSize > 0 {
		ix.avgDocLen = totalLen / float64(ix.corpusSize)
	}

	// IDF per Okapi: ln((N - df + 0.5) / (df + 0.5)). Terms appearing in
	// more than half the corpus come out negative; those are floored at
	// epsilon times the average IDF so they still contribute a small
	// positive amount.
	var idfSum float64
	var negative []string
	n := float64(ix.corpusSize)

	for term, df := range docFreq {
		idf := math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
		ix.idf[term] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, term)
		}
	}

	if len(ix.idf) > 0 {
		floor := defaultEpsilon * (idfSum / float64(len(ix.idf)))
		for _, term := range negative {
			ix.idf[term] = floor
		}
	}

	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return ix.corpusSize
}

// Scores computes the raw BM25 score of every indexed document against the
// tokenized query, in corpus order.
func (ix *Index) Scores(query []string) []float64 {
	scores := make([]float64, ix.corpusSize)

	for _, term := range query {
		idf, ok := ix.idf[term]
		if !ok {
			continue
		}
		for i := 0; i < ix.corpusSize; i++ {
			freq, ok := ix.termFreqs[i][term]
			if !ok {
				continue
			}
			f := float64(freq)
			norm := ix.k1 * (1 - ix.b + ix.b*ix.docLens[i]/ix.avgDocLen)
			scores[i] += idf * (f * (ix.k1 + 1)) / (f + norm)
		}
	}

	return scores
}
