package docparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LegalDocument is the structured corpus layout for Vietnamese legal texts:
// chapters holding numbered articles, articles holding numbered clauses,
// clauses holding lettered points.
type LegalDocument struct {
	DocumentMetadata LegalMetadata `json:"document_metadata"`
	Chapters         []*Chapter    `json:"chapters"`
}

// LegalMetadata carries the document-level fields. Attachments collect
// tables appearing before any article.
type LegalMetadata struct {
	Title          string       `json:"title"`
	DecisionNumber string       `json:"decision_number"`
	IssuedDate     string       `json:"issued_date"`
	SourceFile     string       `json:"source_file"`
	Attachments    []Attachment `json:"attachments"`
}

// Attachment is a table outside the article structure.
type Attachment struct {
	LatexTable string `json:"latex_table"`
}

// Chapter groups articles under a "Chương" heading. ChapterNumber keeps the
// heading's literal numeral (Roman or Arabic); it is empty for the implicit
// chapter created when articles appear before any chapter heading.
type Chapter struct {
	ChapterNumber string     `json:"chapter_number"`
	ChapterTitle  string     `json:"chapter_title"`
	Articles      []*Article `json:"articles"`
}

// Article is one "Điều" with its clauses.
type Article struct {
	ArticleNumber  int            `json:"article_number"`
	ArticleID      string         `json:"article_id"`
	ArticleTitle   string         `json:"article_title"`
	Clauses        []*Clause      `json:"clauses"`
	LegalReference LegalReference `json:"legal_reference"`
}

// LegalReference locates an article within the document.
type LegalReference struct {
	Chapter string `json:"chapter"`
	Article int    `json:"article"`
}

// Clause is one numbered "Khoản" with its points and tables.
type Clause struct {
	ClauseNumber int      `json:"clause_number"`
	ClauseID     string   `json:"clause_id"`
	Points       []*Point `json:"points"`
	LatexTables  []string `json:"latex_tables"`
	Content      string   `json:"content"`
}

// Point is one lettered "Điểm" inside a clause.
type Point struct {
	PointLetter string `json:"point_letter"`
	Content     string `json:"content"`
}

// Heading patterns of Vietnamese legal documents. Chapter numerals may be
// Roman or Arabic; clause markers are leading digits, point markers leading
// letters (đ included, it follows d in the Vietnamese alphabet).
var (
	chapterRe = regexp.MustCompile(`^(?i)chương\s+([IVXLCDM]+|[0-9]+)[.\s:]*(.*)$`)
	articleRe = regexp.MustCompile(`^(?i)điều\s+(\d+)[.\s:]*(.*)$`)
	clauseRe  = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	pointRe   = regexp.MustCompile(`^([a-zđ])[.)]\s+(.+)$`)
)

type structureKind int

const (
	kindContent structureKind = iota
	kindChapter
	kindArticle
	kindClause
	kindPoint
)

type structure struct {
	kind    structureKind
	numeral string // chapter numeral as written
	number  int    // article or clause number
	letter  string // point letter
	text    string // title or content remainder
}

// detectStructure classifies a paragraph as a chapter, article, clause or
// point heading, or plain content.
func detectStructure(text string) structure {
	text = strings.TrimSpace(text)

	if m := chapterRe.FindStringSubmatch(text); m != nil {
		return structure{kind: kindChapter, numeral: m[1], text: strings.TrimSpace(m[2])}
	}
	if m := articleRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return structure{kind: kindArticle, number: n, text: strings.TrimSpace(m[2])}
	}
	if m := clauseRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return structure{kind: kindClause, number: n, text: strings.TrimSpace(m[2])}
	}
	if m := pointRe.FindStringSubmatch(text); m != nil {
		return structure{kind: kindPoint, letter: m[1], text: strings.TrimSpace(m[2])}
	}
	return structure{kind: kindContent, text: text}
}

// ParseLegal builds the chapter/article/clause hierarchy from a document's
// elements. Paragraphs before the first heading become the document title.
// Content paragraphs attach to the innermost open element; an article with
// body text but no clause marker gets an implicit clause 1. Tables attach
// to the current clause, or to the metadata attachments when no article is
// open yet.
func ParseLegal(elements []Element, source string) LegalDocument {
	doc := LegalDocument{
		DocumentMetadata: LegalMetadata{
			SourceFile:  source,
			Attachments: []Attachment{},
		},
		Chapters: []*Chapter{},
	}

	var (
		curChapter *Chapter
		curArticle *Article
		curClause  *Clause
		curPoint   *Point
		titleLines []string
		inContent  bool
	)

	for _, el := range elements {
		if el.Table != nil {
			latex := TableToLaTeX(el.Table)
			switch {
			case curClause != nil:
				curClause.LatexTables = append(curClause.LatexTables, latex)
			case curArticle != nil:
				if len(curArticle.Clauses) == 0 {
					curArticle.Clauses = append(curArticle.Clauses, newClause(1, ""))
				}
				last := curArticle.Clauses[len(curArticle.Clauses)-1]
				last.LatexTables = append(last.LatexTables, latex)
			default:
				doc.DocumentMetadata.Attachments = append(doc.DocumentMetadata.Attachments,
					Attachment{LatexTable: latex})
			}
			continue
		}

		if el.Text == "" {
			continue
		}

		switch s := detectStructure(el.Text); s.kind {
		case kindChapter:
			inContent = true
			curChapter = &Chapter{
				ChapterNumber: s.numeral,
				ChapterTitle:  s.text,
				Articles:      []*Article{},
			}
			doc.Chapters = append(doc.Chapters, curChapter)
			curArticle, curClause, curPoint = nil, nil, nil

		case kindArticle:
			inContent = true
			if curChapter == nil {
				curChapter = &Chapter{Articles: []*Article{}}
				doc.Chapters = append(doc.Chapters, curChapter)
			}
			curArticle = &Article{
				ArticleNumber: s.number,
				ArticleID:     fmt.Sprintf("dieu_%d", s.number),
				ArticleTitle:  s.text,
				Clauses:       []*Clause{},
				LegalReference: LegalReference{
					Chapter: curChapter.ChapterNumber,
					Article: s.number,
				},
			}
			curChapter.Articles = append(curChapter.Articles, curArticle)
			curClause, curPoint = nil, nil

		case kindClause:
			inContent = true
			curClause = newClause(s.number, s.text)
			if curArticle != nil {
				curArticle.Clauses = append(curArticle.Clauses, curClause)
			}
			curPoint = nil

		case kindPoint:
			inContent = true
			curPoint = &Point{PointLetter: s.letter, Content: s.text}
			if curClause != nil {
				curClause.Points = append(curClause.Points, curPoint)
			}

		case kindContent:
			switch {
			case !inContent:
				titleLines = append(titleLines, s.text)
			case curPoint != nil:
				curPoint.Content += "\n" + s.text
			case curClause != nil:
				curClause.Content += "\n" + s.text
			case curArticle != nil:
				if len(curArticle.Clauses) == 0 {
					curArticle.Clauses = append(curArticle.Clauses, newClause(1, s.text))
				} else {
					last := curArticle.Clauses[len(curArticle.Clauses)-1]
					last.Content += "\n" + s.text
				}
			}
		}
	}

	doc.DocumentMetadata.Title = strings.Join(titleLines, "\n")
	return doc
}

func newClause(number int, content string) *Clause {
	return &Clause{
		ClauseNumber: number,
		ClauseID:     fmt.Sprintf("khoan_%d", number),
		Points:       []*Point{},
		LatexTables:  []string{},
		Content:      content,
	}
}
