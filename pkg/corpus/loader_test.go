package corpus

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestLoadDirFlatCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.json", `{
		"chunks": [
			{"chunk_id": 0, "content": "first chunk", "metadata": {"type": "text"}},
			{"chunk_id": 1, "content": "", "tables": ["t1"], "metadata": {"type": "table"}},
			{"chunk_id": 2, "content": "   "},
			{"content": "no id chunk"}
		]
	}`)

	chunks, err := LoadDir(dir, testLogger())
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, Chunk{Source: "doc.json", ChunkID: "0", Content: "first chunk", Type: TypeText}, chunks[0])

	// Empty content falls back to the joined tables list.
	assert.Equal(t, "t1", chunks[1].Content)
	assert.Equal(t, TypeTable, chunks[1].Type)

	// A chunk without an id gets the running chunk count.
	assert.Equal(t, "2", chunks[2].ChunkID)
	assert.Equal(t, TypeText, chunks[2].Type)
}

func TestLoadDirLegalCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quyche.json", `{
		"chapters": [{
			"articles": [{
				"article_number": 4,
				"article_title": "Đối tượng xét tuyển thẳng",
				"clauses": [
					{"clause_id": "khoan_1", "content": "Thí sinh đoạt giải quốc gia."},
					{"clause_id": "khoan_2", "content": "", "latex_tables": ["\\begin{tabular}..."]},
					{"clause_id": "khoan_3", "content": ""}
				]
			}]
		}]
	}`)

	chunks, err := LoadDir(dir, testLogger())
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "article_4", chunks[0].ChunkID)
	assert.Equal(t, TypeArticleTitle, chunks[0].Type)
	assert.Equal(t, "Đối tượng xét tuyển thẳng", chunks[0].Content)

	assert.Equal(t, "article_4_clause_khoan_1", chunks[1].ChunkID)
	assert.Equal(t, TypeClause, chunks[1].Type)

	// Empty clause content falls back to latex tables; fully empty clauses
	// are dropped.
	assert.Equal(t, "article_4_clause_khoan_2", chunks[2].ChunkID)
	assert.Equal(t, "\\begin{tabular}...", chunks[2].Content)
}

func TestLoadDirSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_bad.json", `{not json`)
	writeFile(t, dir, "b_other.json", `{"something_else": true}`)
	writeFile(t, dir, "c_good.json", `{"chunks": [{"chunk_id": "x", "content": "ok"}]}`)
	writeFile(t, dir, "notes.txt", `ignored`)

	chunks, err := LoadDir(dir, testLogger())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c_good.json", chunks[0].Source)
}

func TestLoadDirPreservesFileOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01.json", `{"chunks": [{"chunk_id": "a", "content": "one"}]}`)
	writeFile(t, dir, "02.json", `{"chunks": [{"chunk_id": "a", "content": "two"}]}`)

	chunks, err := LoadDir(dir, testLogger())
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Same (duplicate) chunk id in two files: both kept, file order preserved.
	assert.Equal(t, "01.json", chunks[0].Source)
	assert.Equal(t, "02.json", chunks[1].Source)
}

func TestLoadDirMissingDir(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"), testLogger())
	assert.Error(t, err)
}
