/*
Package crossencoder provides pairwise relevance scoring for reranking
document chunks against a query.

Cross-encoders process a (query, passage) pair in one combined inference
call and output a relevance logit; they are slower but usually more accurate
than bi-encoder similarity. This package defines a narrow ScorePairs
interface so ranking logic can be unit-tested against the mock
implementation, with a production client for TEI/Jina-compatible rerank
HTTP APIs.

Usage:

	client := crossencoder.NewHTTPClient(crossencoder.Config{
		BaseURL:   "http://localhost:8080",
		Model:     "BAAI/bge-reranker-base",
		RawScores: true,
	})

	logits, err := client.ScorePairs(ctx, "admission question", passages)

Scores come back aligned with the input passage order, one per passage.
*/
package crossencoder
