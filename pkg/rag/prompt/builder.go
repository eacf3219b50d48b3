package prompt

import (
	"strings"

	"interview-rag-be/pkg/llm"
	"interview-rag-be/pkg/store"
)

// SystemInstruction defines the two-route contract the oracle must follow.
const SystemInstruction = `Your job is to decide whether:
1. the user wants to book an interview, or
2. the user is asking a general question.

If the user is asking a general question:
- Set route to "rag"
- Answer using the provided context and conversation history
- Put the answer in the "reply" field

If the user wants to book an interview:
- Set route to "booking"
- Extract the following fields into "booking":
    - name
    - email
    - date
    - time
- Use the conversation history: fields the user gave in earlier turns still count

Rules:
- Respond ONLY in valid JSON
- JSON fields must be exactly: route, booking, reply
- If a booking field is missing or unclear, set that field to null. Do NOT guess missing booking fields
- Convert dates to YYYY-MM-DD
- Convert times to 24-hour HH:MM
- If route is "booking", reply must be null
- If route is "rag", booking must be null`

// OracleBuilder assembles the single instruction + single context message pair
type OracleBuilder struct {
	history []store.Turn
	context []store.Document
	query   string
}

func NewOracleBuilder(history []store.Turn, context []store.Document, query string) *OracleBuilder {
	return &OracleBuilder{
		history: history,
		context: context,
		query:   query,
	}
}

func (b *OracleBuilder) Build() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemInstruction},
		{Role: llm.RoleUser, Content: b.buildContextMessage()},
	}
}

func (b *OracleBuilder) buildContextMessage() string {
	var prompt strings.Builder

	prompt.WriteString("Conversation so far:\n")
	b.writeHistory(&prompt)

	prompt.WriteString("\n\nContext:\n")
	b.writeContext(&prompt)

	prompt.WriteString("\n\nQuery:\n")
	prompt.WriteString(b.query)

	return prompt.String()
}

func (b *OracleBuilder) writeHistory(prompt *strings.Builder) {
	for i, turn := range b.history {
		if i > 0 {
			prompt.WriteString("\n")
		}
		prompt.WriteString("User: ")
		prompt.WriteString(turn.UserQuery)
		prompt.WriteString("\nAssistant: ")
		if turn.AssistantReply == nil {
			prompt.WriteString("(no reply)")
		} else {
			prompt.WriteString(*turn.AssistantReply)
		}
	}
}

// Chunks are already ordered by similarity; empty context stays empty.
func (b *OracleBuilder) writeContext(prompt *strings.Builder) {
	texts := make([]string, 0, len(b.context))
	for _, doc := range b.context {
		texts = append(texts, doc.Content)
	}
	prompt.WriteString(strings.Join(texts, "\n\n"))
}
