package rewrite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// conversationJSON is the JSON input row shape. dialog_id may be a string
// or a number; numeric ids keep their literal form.
type conversationJSON struct {
	DialogID     json.RawMessage `json:"dialog_id"`
	Conversation string          `json:"conversation"`
}

// Load reads conversations from an Excel export or a JSON array, picked by
// file extension.
func Load(path string) ([]Conversation, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadConversations(path)
	case ".json":
		return LoadConversationsJSON(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q: want .xlsx or .json", filepath.Ext(path))
	}
}

// LoadConversationsJSON reads a JSON array of
// {"dialog_id": ..., "conversation": ...} objects.
func LoadConversationsJSON(path string) ([]Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var rows []conversationJSON
	if err := json.NewDecoder(f).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	conversations := make([]Conversation, len(rows))
	for i, row := range rows {
		conversations[i] = Conversation{
			DialogID: rawID(row.DialogID),
			Text:     row.Conversation,
		}
	}
	return conversations, nil
}

// rawID renders a JSON string or number id as a string.
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
