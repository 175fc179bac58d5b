package corpus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// flatChunk mirrors one entry of a "chunks" corpus file.
type flatChunk struct {
	ChunkID  json.RawMessage `json:"chunk_id"`
	Content  string          `json:"content"`
	Tables   []string        `json:"tables"`
	Metadata struct {
		Type string `json:"type"`
	} `json:"metadata"`
}

// Structured legal corpus files: chapters contain articles contain clauses.
type legalChapter struct {
	Articles []legalArticle `json:"articles"`
}

type legalArticle struct {
	ArticleNumber *int          `json:"article_number"`
	ArticleTitle  string        `json:"article_title"`
	Clauses       []legalClause `json:"clauses"`
}

type legalClause struct {
	ClauseID    json.RawMessage `json:"clause_id"`
	Content     string          `json:"content"`
	LatexTables []string        `json:"latex_tables"`
}

// LoadDir loads every *.json file under dir into a single ordered chunk
// list. Files are visited in lexical name order and chunks keep their
// in-file order; nothing is deduplicated. Files that fail to parse are
// logged and skipped, never fatal.
func LoadDir(dir string, log *slog.Logger) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference directory: %w", err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("skipping unreadable corpus file", "file", entry.Name(), "error", err)
			continue
		}

		log.Info("loading corpus file", "file", entry.Name())

		fileChunks, err := parseFile(entry.Name(), data, len(chunks))
		if err != nil {
			log.Warn("skipping malformed corpus file", "file", entry.Name(), "error", err)
			continue
		}
		chunks = append(chunks, fileChunks...)
	}

	log.Info("corpus loaded", "chunks", len(chunks))
	return chunks, nil
}

// parseFile dispatches on the corpus file's top-level shape. offset is the
// number of chunks already loaded, used as the fallback chunk id for flat
// entries that carry none.
func parseFile(source string, data []byte, offset int) ([]Chunk, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	switch {
	case top["chunks"] != nil:
		var flat []flatChunk
		if err := json.Unmarshal(top["chunks"], &flat); err != nil {
			return nil, fmt.Errorf("invalid chunks list: %w", err)
		}
		return flatChunks(source, flat, offset), nil

	case top["chapters"] != nil:
		var chapters []legalChapter
		if err := json.Unmarshal(top["chapters"], &chapters); err != nil {
			return nil, fmt.Errorf("invalid chapters list: %w", err)
		}
		return legalChunks(source, chapters), nil

	default:
		return nil, fmt.Errorf("unrecognized corpus layout: no chunks or chapters key")
	}
}

func flatChunks(source string, flat []flatChunk, offset int) []Chunk {
	var chunks []Chunk
	for _, fc := range flat {
		content := fc.Content
		if strings.TrimSpace(content) == "" && len(fc.Tables) > 0 {
			content = strings.Join(fc.Tables, "\n")
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		id := rawID(fc.ChunkID)
		if id == "" {
			id = strconv.Itoa(offset + len(chunks))
		}

		typ := TypeText
		if fc.Metadata.Type != "" {
			typ = ChunkType(fc.Metadata.Type)
		}

		chunks = append(chunks, Chunk{
			Source:  source,
			ChunkID: id,
			Content: strings.TrimSpace(content),
			Type:    typ,
		})
	}
	return chunks
}

func legalChunks(source string, chapters []legalChapter) []Chunk {
	var chunks []Chunk
	for _, chapter := range chapters {
		for _, article := range chapter.Articles {
			articleNum := "unknown"
			if article.ArticleNumber != nil {
				articleNum = strconv.Itoa(*article.ArticleNumber)
			}

			if strings.TrimSpace(article.ArticleTitle) != "" {
				chunks = append(chunks, Chunk{
					Source:  source,
					ChunkID: "article_" + articleNum,
					Content: strings.TrimSpace(article.ArticleTitle),
					Type:    TypeArticleTitle,
				})
			}

			for _, clause := range article.Clauses {
				content := clause.Content
				if strings.TrimSpace(content) == "" && len(clause.LatexTables) > 0 {
					content = strings.Join(clause.LatexTables, "\n")
				}
				if strings.TrimSpace(content) == "" {
					continue
				}

				clauseID := rawID(clause.ClauseID)
				if clauseID == "" {
					clauseID = "unknown"
				}

				chunks = append(chunks, Chunk{
					Source:  source,
					ChunkID: fmt.Sprintf("article_%s_clause_%s", articleNum, clauseID),
					Content: strings.TrimSpace(content),
					Type:    TypeClause,
				})
			}
		}
	}
	return chunks
}

// rawID renders a JSON string or number id as a string. Numeric ids keep
// their literal form so "3" and 3 round-trip identically.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
