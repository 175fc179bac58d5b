package docparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableToLaTeX(t *testing.T) {
	rows := [][]string{
		{"Mức lương", "Tỷ lệ %"},
		{"5_000_000", "100"},
	}

	got := TableToLaTeX(rows)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, `\begin{tabular}{|c|c|}`, lines[0])
	assert.Equal(t, `\hline`, lines[1])
	assert.Equal(t, `Mức lương & Tỷ lệ \% \\\\`, lines[2])
	assert.Equal(t, `\hline`, lines[3])
	assert.Equal(t, `5\_000\_000 & 100 \\\\`, lines[4])
	assert.Equal(t, `\hline`, lines[5])
	assert.Equal(t, `\end{tabular}`, lines[6])
}

func TestTableToLaTeXEscaping(t *testing.T) {
	got := TableToLaTeX([][]string{{`a & b % c $ d # e _ f { g } h ~ i ^ j`}})
	assert.Contains(t, got, `a \& b \% c \$ d \# e \_ f \{ g \} h \~ i \^ j`)
}

func TestTableToLaTeXEmpty(t *testing.T) {
	assert.Equal(t, "", TableToLaTeX(nil))
}

func TestDetectStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  structure
	}{
		{
			name:  "chapter roman numeral",
			input: "Chương II. QUY ĐỊNH CHUNG",
			want:  structure{kind: kindChapter, numeral: "II", text: "QUY ĐỊNH CHUNG"},
		},
		{
			name:  "chapter uppercase",
			input: "CHƯƠNG 3: ĐIỀU KHOẢN THI HÀNH",
			want:  structure{kind: kindChapter, numeral: "3", text: "ĐIỀU KHOẢN THI HÀNH"},
		},
		{
			name:  "article",
			input: "Điều 12. Thời giờ làm việc",
			want:  structure{kind: kindArticle, number: 12, text: "Thời giờ làm việc"},
		},
		{
			name:  "article without title",
			input: "Điều 5",
			want:  structure{kind: kindArticle, number: 5},
		},
		{
			name:  "clause",
			input: "2. Người lao động được nghỉ hằng năm",
			want:  structure{kind: kindClause, number: 2, text: "Người lao động được nghỉ hằng năm"},
		},
		{
			name:  "point with paren",
			input: "b) Trường hợp đặc biệt",
			want:  structure{kind: kindPoint, letter: "b", text: "Trường hợp đặc biệt"},
		},
		{
			name:  "point letter dj",
			input: "đ. Các trường hợp khác",
			want:  structure{kind: kindPoint, letter: "đ", text: "Các trường hợp khác"},
		},
		{
			name:  "plain content",
			input: "Căn cứ Bộ luật Lao động năm 2019",
			want:  structure{kind: kindContent, text: "Căn cứ Bộ luật Lao động năm 2019"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectStructure(tt.input))
		})
	}
}

func TestBuildRAGDocument(t *testing.T) {
	elements := []Element{
		{Text: strings.Repeat("a", 300)},
		{Text: strings.Repeat("b", 300)}, // pushes the first chunk past the limit
		{Table: [][]string{{"x", "y"}}},
		{Text: "trailing text"},
	}

	doc := BuildRAGDocument(elements, "report.docx", 500)
	require.Len(t, doc.Chunks, 3)
	assert.Equal(t, 3, doc.DocumentMetadata.TotalChunks)
	assert.Equal(t, "report.docx", doc.DocumentMetadata.SourceFile)

	assert.Equal(t, 0, doc.Chunks[0].ChunkID)
	assert.Equal(t, "text", doc.Chunks[0].Metadata.Type)
	assert.Equal(t, strings.Repeat("a", 300)+"\n"+strings.Repeat("b", 300), doc.Chunks[0].Content)

	assert.Equal(t, 1, doc.Chunks[1].ChunkID)
	assert.Equal(t, "table", doc.Chunks[1].Metadata.Type)
	require.Len(t, doc.Chunks[1].Tables, 1)
	assert.Contains(t, doc.Chunks[1].Tables[0], `\begin{tabular}`)

	assert.Equal(t, 2, doc.Chunks[2].ChunkID)
	assert.Equal(t, "trailing text", doc.Chunks[2].Content)
}

func TestBuildRAGDocumentRuneSizing(t *testing.T) {
	// 10 runes but 20+ bytes: must not seal a chunk at a 15-rune limit.
	elements := []Element{
		{Text: strings.Repeat("ư", 10)},
		{Text: "x"},
	}

	doc := BuildRAGDocument(elements, "vn.docx", 15)
	require.Len(t, doc.Chunks, 1)
}

func TestParseLegal(t *testing.T) {
	elements := []Element{
		{Text: "QUYẾT ĐỊNH"},
		{Text: "Về việc ban hành quy chế đào tạo"},
		{Text: "Chương I. QUY ĐỊNH CHUNG"},
		{Text: "Điều 1. Phạm vi điều chỉnh"},
		{Text: "1. Quy chế này quy định về đào tạo"},
		{Text: "a) áp dụng cho sinh viên chính quy"},
		{Text: "nội dung bổ sung của điểm"},
		{Text: "2. Quy chế áp dụng từ khóa tuyển sinh 2024"},
		{Table: [][]string{{"Học kỳ", "Tín chỉ"}, {"1", "15"}}},
		{Text: "Điều 2. Đối tượng áp dụng"},
		{Text: "văn bản điều khoản không đánh số"},
	}

	doc := ParseLegal(elements, "quyche.docx")

	assert.Equal(t, "QUYẾT ĐỊNH\nVề việc ban hành quy chế đào tạo", doc.DocumentMetadata.Title)
	assert.Empty(t, doc.DocumentMetadata.Attachments)
	require.Len(t, doc.Chapters, 1)

	chapter := doc.Chapters[0]
	assert.Equal(t, "I", chapter.ChapterNumber)
	assert.Equal(t, "QUY ĐỊNH CHUNG", chapter.ChapterTitle)
	require.Len(t, chapter.Articles, 2)

	art1 := chapter.Articles[0]
	assert.Equal(t, 1, art1.ArticleNumber)
	assert.Equal(t, "dieu_1", art1.ArticleID)
	assert.Equal(t, "Phạm vi điều chỉnh", art1.ArticleTitle)
	assert.Equal(t, "I", art1.LegalReference.Chapter)
	require.Len(t, art1.Clauses, 2)

	clause1 := art1.Clauses[0]
	assert.Equal(t, "khoan_1", clause1.ClauseID)
	assert.Equal(t, "Quy chế này quy định về đào tạo", clause1.Content)
	require.Len(t, clause1.Points, 1)
	assert.Equal(t, "a", clause1.Points[0].PointLetter)
	assert.Equal(t, "áp dụng cho sinh viên chính quy\nnội dung bổ sung của điểm", clause1.Points[0].Content)

	clause2 := art1.Clauses[1]
	assert.Equal(t, 2, clause2.ClauseNumber)
	require.Len(t, clause2.LatexTables, 1)
	assert.Contains(t, clause2.LatexTables[0], "Học kỳ")

	// Content without a clause marker becomes an implicit clause 1.
	art2 := chapter.Articles[1]
	require.Len(t, art2.Clauses, 1)
	assert.Equal(t, "khoan_1", art2.Clauses[0].ClauseID)
	assert.Equal(t, "văn bản điều khoản không đánh số", art2.Clauses[0].Content)
}

func TestParseLegalDefaultChapterAndAttachments(t *testing.T) {
	elements := []Element{
		{Table: [][]string{{"phụ lục"}}},
		{Text: "Điều 1. Điều khoản duy nhất"},
		{Text: "1. Nội dung"},
	}

	doc := ParseLegal(elements, "vanban.docx")

	require.Len(t, doc.DocumentMetadata.Attachments, 1)
	assert.Contains(t, doc.DocumentMetadata.Attachments[0].LatexTable, "phụ lục")

	require.Len(t, doc.Chapters, 1)
	assert.Equal(t, "", doc.Chapters[0].ChapterNumber)
	require.Len(t, doc.Chapters[0].Articles, 1)
}
