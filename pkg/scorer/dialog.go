package scorer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dialog is one Q&A conversation, kept as a generic JSON object so fields
// this pipeline does not know about survive the round trip. Key order in
// the output follows encoding/json's sorted-key marshaling, not the input.
type Dialog map[string]any

// QA extracts the dialog's question (user message) and answer (assistant
// message). When a role appears more than once the last message wins.
// Either may come back empty; the caller decides what that means.
func (d Dialog) QA() (question, answer string) {
	messages, _ := d["messages"].([]any)
	for _, raw := range messages {
		msg, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		role, _ := msg["role"].(string)
		content, _ := msg["content"].(string)
		switch role {
		case "user":
			question = content
		case "assistant":
			answer = content
		}
	}
	return question, answer
}

// clone returns a shallow copy so the input dialog is never mutated.
func (d Dialog) clone() Dialog {
	out := make(Dialog, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ReadDialogs loads a JSON array of dialogs. Numbers are decoded as
// json.Number so ids round-trip without float formatting artifacts.
func ReadDialogs(path string) ([]Dialog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dialogs file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var dialogs []Dialog
	if err := dec.Decode(&dialogs); err != nil {
		return nil, fmt.Errorf("failed to parse dialogs file: %w", err)
	}
	return dialogs, nil
}

// WriteDialogs writes dialogs as indented JSON without HTML escaping, so
// Vietnamese text stays readable in the output file.
func WriteDialogs(path string, dialogs []Dialog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dialogs); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
