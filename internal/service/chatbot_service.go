package service

import (
	"context"
	"errors"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/metrics"
	"interview-rag-be/pkg/rag/executor"
	"interview-rag-be/pkg/rag/session"
	"interview-rag-be/pkg/store"
)

type IChatbotService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error)
}

// TurnExecutor runs one dialogue turn
type TurnExecutor interface {
	Execute(ctx context.Context, sessionID string, query string) (*executor.ExecutionResult, error)
}

// HistoryReader reads a session's stored turns
type HistoryReader interface {
	ReadAll(ctx context.Context, sessionID string) ([]store.Turn, error)
}

type chatbotService struct {
	sessionManager *session.Manager
	executor       TurnExecutor
	history        HistoryReader
	lockSessions   bool
	logger         logger.ILogger
}

func NewChatbotService(
	sessionManager *session.Manager,
	turnExecutor TurnExecutor,
	history HistoryReader,
	lockSessions bool,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		sessionManager: sessionManager,
		executor:       turnExecutor,
		history:        history,
		lockSessions:   lockSessions,
		logger:         log,
	}
}

func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId, created := cs.sessionManager.Resolve(request.SessionId)
	if created {
		cs.logger.Info("CHATBOT", "New session allocated", map[string]interface{}{"session_id": sessionId})
	}

	if cs.lockSessions {
		release := cs.sessionManager.Lock(sessionId)
		defer release()
	}

	start := time.Now()
	result, err := cs.executor.Execute(ctx, sessionId, request.Query)
	if err != nil {
		metrics.ObserveFailure(failureReason(err))
		cs.logger.Error("CHATBOT", "Turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}
	metrics.ObserveTurn(result.Route, result.Outcome, result.OracleLatency)

	cs.logger.Info("CHATBOT", "Turn completed", map[string]interface{}{
		"session_id": sessionId,
		"route":      result.Route,
		"outcome":    result.Outcome,
		"context":    result.ContextDocCount,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	return &dto.SendChatResponse{
		SessionId:     sessionId,
		Query:         request.Query,
		Reply:         result.Reply,
		Route:         result.Route,
		MissingFields: result.MissingFields,
	}, nil
}

// GetChatHistory returns every stored turn; reading refreshes the session TTL
func (cs *chatbotService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	turns, err := cs.history.ReadAll(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	res := &dto.GetChatHistoryResponse{
		SessionId: sessionId,
		Turns:     make([]*dto.ChatTurnResponse, 0, len(turns)),
	}
	for _, t := range turns {
		res.Turns = append(res.Turns, &dto.ChatTurnResponse{
			UserQuery:      t.UserQuery,
			AssistantReply: t.AssistantReply,
		})
	}
	return res, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, executor.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, executor.ErrHistoryUnavailable):
		return "history_read"
	case errors.Is(err, executor.ErrStoreUnavailable):
		return "store_write"
	case errors.Is(err, executor.ErrLedgerUnavailable):
		return "ledger"
	default:
		return "other"
	}
}
