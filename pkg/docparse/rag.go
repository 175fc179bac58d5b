package docparse

import "unicode/utf8"

// DefaultChunkSize is the flat chunker's text size limit, in runes.
const DefaultChunkSize = 500

// RAGDocument is the flat corpus layout: running text split into bounded
// chunks, tables isolated into chunks of their own.
type RAGDocument struct {
	DocumentMetadata RAGMetadata `json:"document_metadata"`
	Chunks           []RAGChunk  `json:"chunks"`
}

// RAGMetadata describes the source document of a flat corpus file.
type RAGMetadata struct {
	SourceFile  string `json:"source_file"`
	TotalChunks int    `json:"total_chunks"`
	ChunkSize   int    `json:"chunk_size"`
}

// RAGChunk is one retrievable unit: either accumulated paragraph text or a
// single LaTeX table.
type RAGChunk struct {
	ChunkID  int           `json:"chunk_id"`
	Content  string        `json:"content"`
	Tables   []string      `json:"tables"`
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata tags a chunk with its origin and kind ("text" or "table").
type ChunkMetadata struct {
	Source string `json:"source"`
	Type   string `json:"type"`
}

// BuildRAGDocument chunks a document's elements for retrieval. Paragraph
// text accumulates until it reaches chunkSize runes, then the chunk is
// sealed. A table always seals the running text chunk and becomes a chunk
// by itself, so table content never dilutes a text chunk's embedding.
func BuildRAGDocument(elements []Element, source string, chunkSize int) RAGDocument {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	chunks := []RAGChunk{}
	current := newTextChunk(0, source)

	flush := func() {
		if current.Content != "" {
			current.ChunkID = len(chunks)
			chunks = append(chunks, current)
		}
		current = newTextChunk(len(chunks), source)
	}

	for _, el := range elements {
		if el.Table != nil {
			flush()
			chunks = append(chunks, RAGChunk{
				ChunkID:  len(chunks),
				Tables:   []string{TableToLaTeX(el.Table)},
				Metadata: ChunkMetadata{Source: source, Type: "table"},
			})
			current.ChunkID = len(chunks)
			continue
		}

		if el.Text == "" {
			continue
		}
		if current.Content != "" {
			current.Content += "\n" + el.Text
		} else {
			current.Content = el.Text
		}
		if utf8.RuneCountInString(current.Content) >= chunkSize {
			flush()
		}
	}
	flush()

	return RAGDocument{
		DocumentMetadata: RAGMetadata{
			SourceFile:  source,
			TotalChunks: len(chunks),
			ChunkSize:   chunkSize,
		},
		Chunks: chunks,
	}
}

func newTextChunk(id int, source string) RAGChunk {
	return RAGChunk{
		ChunkID:  id,
		Tables:   []string{},
		Metadata: ChunkMetadata{Source: source, Type: "text"},
	}
}
