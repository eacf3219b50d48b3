package dto

type SendChatRequest struct {
	Query     string `json:"query" query:"query" validate:"required,max=4000"`
	SessionId string `json:"session_id" query:"session_id" validate:"omitempty,max=128"`
}

type SendChatResponse struct {
	SessionId     string   `json:"session_id"`
	Query         string   `json:"query"`
	Reply         string   `json:"reply"`
	Route         string   `json:"route"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

type ChatTurnResponse struct {
	UserQuery      string  `json:"user_query"`
	AssistantReply *string `json:"assistant_reply"`
}

type GetChatHistoryResponse struct {
	SessionId string              `json:"session_id"`
	Turns     []*ChatTurnResponse `json:"turns"`
}
