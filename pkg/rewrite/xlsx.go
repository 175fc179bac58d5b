package rewrite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Input column headers of the conversation export.
const (
	columnDialogID     = "Dialog ID"
	columnConversation = "Response of gemini"
)

// outputHeaders is the flattened column layout of the Excel result file.
var outputHeaders = []string{
	"dialog_id", "original_dialog_id", "topic", "question", "answer",
	"multi_intent", "insufficient_context", "question_type",
	"reasoning_level", "messages_json",
}

// LoadConversations reads the conversation export. The first sheet must
// carry a header row with the "Dialog ID" and "Response of gemini"
// columns; rows missing either value are kept with empty fields so row
// indices stay aligned with the source file.
func LoadConversations(path string) ([]Conversation, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("input workbook is empty")
	}

	idCol, convCol := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case columnDialogID:
			idCol = i
		case columnConversation:
			convCol = i
		}
	}
	if idCol < 0 || convCol < 0 {
		return nil, fmt.Errorf("input workbook is missing the %q or %q column",
			columnDialogID, columnConversation)
	}

	conversations := make([]Conversation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		conversations = append(conversations, Conversation{
			DialogID: cellAt(row, idCol),
			Text:     cellAt(row, convCol),
		})
	}
	return conversations, nil
}

// SaveResults writes the Q&A pairs both as a flattened Excel sheet and as
// raw JSON next to it (same path, .json extension).
func SaveResults(path string, pairs []QAPair) error {
	if err := saveXLSX(path, pairs); err != nil {
		return err
	}
	return saveJSON(jsonSibling(path), pairs)
}

func saveXLSX(path string, pairs []QAPair) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]any, len(outputHeaders))
	for i, h := range outputHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, pair := range pairs {
		question, answer := pair.QA()
		messagesJSON, err := json.Marshal(pair.Messages)
		if err != nil {
			return fmt.Errorf("failed to encode messages for %s: %w", pair.DialogID, err)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			pair.DialogID, pair.OriginalDialogID, pair.Topic, question, answer,
			pair.MultiIntent, pair.InsufficientContext, pair.QuestionType,
			pair.ReasoningLevel, string(messagesJSON),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func saveJSON(path string, pairs []QAPair) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pairs); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

// jsonSibling swaps the path's extension for .json.
func jsonSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

// cellAt indexes a row that excelize may have returned short of trailing
// empty cells.
func cellAt(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}
