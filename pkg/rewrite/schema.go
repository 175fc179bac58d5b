package rewrite

import "github.com/sashabaranov/go-openai/jsonschema"

// Topic labels for the admissions Q&A corpus. The values are the exact
// Vietnamese labels annotators use, so they match the labeled data.
const (
	TopicDirectAdmission   = "XTT & ƯTXT"
	TopicNationalExam      = "XT THPT QG"
	TopicCombinedAdmission = "XT kết hợp"
	TopicOtherAdmission    = "XT khác"
	TopicNonAdmission      = "Không XT"
	TopicPaperwork         = "Hồ sơ và quy trình"
	TopicOtherInfo         = "Thông tin tuyển sinh khác"
	TopicEnrollment        = "Thông tin nhập học"
	TopicCurriculum        = "Chương trình học"
	TopicQualityAssurance  = "ĐBCL"
	TopicUnrelated         = "Không liên quan"
)

// Topics lists every valid topic label.
var Topics = []string{
	TopicDirectAdmission,
	TopicNationalExam,
	TopicCombinedAdmission,
	TopicOtherAdmission,
	TopicNonAdmission,
	TopicPaperwork,
	TopicOtherInfo,
	TopicEnrollment,
	TopicCurriculum,
	TopicQualityAssurance,
	TopicUnrelated,
}

// QuestionTypes lists the valid question-type labels.
var QuestionTypes = []string{
	"Cái gì",
	"Ai",
	"Ở đâu",
	"Khi nào",
	"Như thế nào",
	"Bao nhiêu",
	"Tại sao",
	"Có/Không",
}

// Reasoning levels: 0 no reasoning, 1 one or two steps, 2 three or more.
var ReasoningLevels = []string{"0", "1", "2"}

// Message is one turn of a rewritten dialog.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QAPair is one rewritten Q&A with its labels. OriginalDialogID is filled
// in by the driver, never by the model.
type QAPair struct {
	DialogID            string    `json:"dialog_id"`
	OriginalDialogID    string    `json:"original_dialog_id,omitempty"`
	Topic               string    `json:"topic"`
	Messages            []Message `json:"messages"`
	MultiIntent         bool      `json:"multi_intent"`
	InsufficientContext bool      `json:"insufficient_context"`
	QuestionType        string    `json:"question_type"`
	ReasoningLevel      string    `json:"reasoning_level"`
}

// QA extracts the pair's question (user message) and answer (assistant
// message). When a role repeats, the last message wins.
func (p QAPair) QA() (question, answer string) {
	for _, msg := range p.Messages {
		switch msg.Role {
		case "user":
			question = msg.Content
		case "assistant":
			answer = msg.Content
		}
	}
	return question, answer
}

// ResponseSchema is the structured-output schema the model must follow:
// an array of Q&A pair objects with closed label vocabularies.
func ResponseSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type: jsonschema.Array,
		Items: &jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"dialog_id": {Type: jsonschema.String},
				"topic":     {Type: jsonschema.String, Enum: Topics},
				"messages": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type: jsonschema.Object,
						Properties: map[string]jsonschema.Definition{
							"role":    {Type: jsonschema.String, Enum: []string{"user", "assistant"}},
							"content": {Type: jsonschema.String},
						},
						Required: []string{"role", "content"},
					},
				},
				"multi_intent":         {Type: jsonschema.Boolean},
				"insufficient_context": {Type: jsonschema.Boolean},
				"question_type":        {Type: jsonschema.String, Enum: QuestionTypes},
				"reasoning_level":      {Type: jsonschema.String, Enum: ReasoningLevels},
			},
			Required: []string{
				"dialog_id", "topic", "messages", "multi_intent",
				"insufficient_context", "question_type", "reasoning_level",
			},
		},
	}
}
