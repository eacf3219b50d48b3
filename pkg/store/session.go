package store

// Document is a retrieved knowledge chunk handed to the prompt builder
type Document struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Score    float32                `json:"score"`
	Rank     int                    `json:"rank"` // 1 = most similar
	Source   string                 `json:"source"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Turn is one query/reply pair of a session. Immutable once appended.
type Turn struct {
	UserQuery      string  `json:"user_query"`
	AssistantReply *string `json:"assistant_reply"`
}

func NewTurn(query, reply string) Turn {
	return Turn{UserQuery: query, AssistantReply: &reply}
}

func (t Turn) Reply() string {
	if t.AssistantReply == nil {
		return ""
	}
	return *t.AssistantReply
}

// SessionKeyPrefix namespaces turn logs in the conversation store
const SessionKeyPrefix = "chat:"

func SessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}
