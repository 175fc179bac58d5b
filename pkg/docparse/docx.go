package docparse

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// Element is one body item of a Word document in reading order. Exactly one
// field is set: Text for a paragraph, Table for a table's cell texts.
type Element struct {
	Text  string
	Table [][]string
}

// ReadDocx extracts the paragraphs and tables of a .docx file in document
// order. Empty paragraphs are dropped.
func ReadDocx(path string) ([]Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	var elements []Element
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			text := strings.TrimSpace(it.String())
			if text == "" {
				continue
			}
			elements = append(elements, Element{Text: text})

		case *docx.Table:
			rows := make([][]string, 0, len(it.TableRows))
			for _, row := range it.TableRows {
				cells := make([]string, 0, len(row.TableCells))
				for _, cell := range row.TableCells {
					parts := make([]string, 0, len(cell.Paragraphs))
					for _, para := range cell.Paragraphs {
						parts = append(parts, para.String())
					}
					cells = append(cells, strings.TrimSpace(strings.Join(parts, "\n")))
				}
				rows = append(rows, cells)
			}
			elements = append(elements, Element{Table: rows})
		}
	}
	return elements, nil
}
