// Package corpus loads reference document chunks from JSON corpora.
//
// Two corpus layouts are supported and normalized into one flat chunk list:
// flat chunk files produced by the RAG chunker ("chunks" top-level key) and
// structured legal documents produced by the structure parser ("chapters"
// top-level key). The layout is dispatched on an explicit discriminant key
// rather than probed field by field.
package corpus

// ChunkType classifies where a chunk's content came from.
type ChunkType string

const (
	TypeText         ChunkType = "text"
	TypeTable        ChunkType = "table"
	TypeArticleTitle ChunkType = "article_title"
	TypeClause       ChunkType = "clause"
)

// Chunk is one unit of source-document text or table content. Identity is
// (Source, ChunkID). Chunks are immutable after load.
type Chunk struct {
	Source  string    `json:"source"`
	ChunkID string    `json:"chunk_id"`
	Content string    `json:"content"`
	Type    ChunkType `json:"type"`
}
