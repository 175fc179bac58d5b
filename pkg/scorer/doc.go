/*
Package scorer assigns supporting document chunks to Q&A dialogs.

For every dialog it combines three relevance signals per candidate chunk
(answer-to-chunk similarity, question-to-chunk similarity, and a BM25
lexical score) into one fused score:

	final = 0.6*sim(answer, chunk) + 0.2*sim(question, chunk) + 0.2*normalizedBM25(chunk)

Two strategies produce the similarity term. The bi-encoder strategy embeds
every chunk once and scores dialogs by cosine similarity over the whole
corpus. The cross-encoder strategy first restricts to the top chunks by raw
BM25 score and runs a pairwise relevance model over that candidate set only,
passing logits through a sigmoid.

Selection keeps the top-k fused scores at or above the threshold. A dialog
missing its question or answer gets an empty reference list, never an error.
Given deterministic model oracles the whole assignment is deterministic:
ties in the fused score break by original corpus order.
*/
package scorer
