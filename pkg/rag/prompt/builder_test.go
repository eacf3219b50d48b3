package prompt

import (
	"testing"

	"interview-rag-be/pkg/llm"
	"interview-rag-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleBuilder_Build(t *testing.T) {
	history := []store.Turn{
		store.NewTurn("I want to book an interview", "Please provide the missing fields: name,email,date,time"),
		{UserQuery: "hello"},
	}
	context := []store.Document{
		{Content: "John studied at MIT.", Rank: 1},
		{Content: "John knows Go.", Rank: 2},
	}

	msgs := NewOracleBuilder(history, context, "My name is A").Build()
	require.Len(t, msgs, 2)

	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, SystemInstruction, msgs[0].Content)

	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	want := "Conversation so far:\n" +
		"User: I want to book an interview\nAssistant: Please provide the missing fields: name,email,date,time\n" +
		"User: hello\nAssistant: (no reply)" +
		"\n\nContext:\nJohn studied at MIT.\n\nJohn knows Go." +
		"\n\nQuery:\nMy name is A"
	assert.Equal(t, want, msgs[1].Content)
}

func TestOracleBuilder_EmptyHistoryAndContext(t *testing.T) {
	msgs := NewOracleBuilder(nil, nil, "What is his email?").Build()

	assert.Equal(t, "Conversation so far:\n\n\nContext:\n\n\nQuery:\nWhat is his email?", msgs[1].Content)
}

func TestSystemInstruction_DeclaresContract(t *testing.T) {
	for _, phrase := range []string{
		"route, booking, reply",
		"YYYY-MM-DD",
		"HH:MM",
		"Do NOT guess",
	} {
		assert.Contains(t, SystemInstruction, phrase)
	}
}
