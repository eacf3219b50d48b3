package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/mailer"
	"interview-rag-be/pkg/chunking"
	"interview-rag-be/pkg/events"
	"interview-rag-be/pkg/rag/executor"
	"interview-rag-be/pkg/rag/session"
	"interview-rag-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, payload any) error {
	return m.Called(payload).Error(0)
}

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, sessionID string, query string) (*executor.ExecutionResult, error) {
	args := m.Called(sessionID, query)
	res, _ := args.Get(0).(*executor.ExecutionResult)
	return res, args.Error(1)
}

type sliceHistory []store.Turn

func (h sliceHistory) ReadAll(context.Context, string) ([]store.Turn, error) {
	return h, nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendBookingConfirmation(toEmail string, details mailer.BookingDetails) error {
	return m.Called(toEmail, details).Error(0)
}

func TestIngestionService_Upload(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		strategy string
		wantErr  error
	}{
		{"pdf recursive", "cv.pdf", "recursive", nil},
		{"txt document", "notes.txt", "document", nil},
		{"bad strategy", "cv.pdf", "semantic", chunking.ErrUnsupportedStrategy},
		{"bad extension", "cv.docx", "recursive", chunking.ErrUnsupportedFileType},
		{"path traversal is flattened", "../../etc/cv.txt", "recursive", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pub := &mockPublisher{}
			pub.On("Publish", mock.AnythingOfType("dto.PublishReindexMessage")).Return(nil)

			svc := NewIngestionService(dir, pub, logger.NewNopLogger())
			res, err := svc.Upload(context.Background(), tt.fileName, bytes.NewBufferString("John Doe"), tt.strategy)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				entries, _ := os.ReadDir(dir)
				assert.Empty(t, entries, "rejected uploads must not touch disk")
				pub.AssertNotCalled(t, "Publish", mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, filepath.Base(tt.fileName), res.FileName)
			data, err := os.ReadFile(filepath.Join(dir, res.FileName))
			require.NoError(t, err)
			assert.Equal(t, "John Doe", string(data))
			pub.AssertNumberOfCalls(t, "Publish", 1)
		})
	}
}

func TestChatbotService_SendChat(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", "fresh-id", "What is his email?").Return(&executor.ExecutionResult{
		Reply: "john@example.com",
		Route: executor.RouteRAG,
	}, nil)

	svc := NewChatbotService(session.NewManager(func() string { return "fresh-id" }), exec, sliceHistory{}, true, logger.NewNopLogger())
	res, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "What is his email?"})
	require.NoError(t, err)

	assert.Equal(t, "fresh-id", res.SessionId)
	assert.Equal(t, "john@example.com", res.Reply)
	assert.Equal(t, "rag", res.Route)
}

func TestChatbotService_SendChatPropagatesErrors(t *testing.T) {
	exec := &mockExecutor{}
	exec.On("Execute", "s1", "hello").Return(nil, executor.ErrStoreUnavailable)

	svc := NewChatbotService(session.NewManager(nil), exec, sliceHistory{}, false, logger.NewNopLogger())
	_, err := svc.SendChat(context.Background(), &dto.SendChatRequest{Query: "hello", SessionId: "s1"})
	assert.ErrorIs(t, err, executor.ErrStoreUnavailable)
}

func TestChatbotService_GetChatHistory(t *testing.T) {
	history := sliceHistory{store.NewTurn("q1", "r1"), {UserQuery: "q2"}}
	svc := NewChatbotService(session.NewManager(nil), &mockExecutor{}, history, false, logger.NewNopLogger())

	res, err := svc.GetChatHistory(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, res.Turns, 2)
	assert.Equal(t, "r1", *res.Turns[0].AssistantReply)
	assert.Nil(t, res.Turns[1].AssistantReply)
}

func TestNotificationService_HandleBookingCommitted(t *testing.T) {
	m := &mockMailer{}
	m.On("SendBookingConfirmation", "a@x.com", mailer.BookingDetails{Name: "A", Date: "2025-03-01", Time: "14:30"}).
		Return(errors.New("smtp down")).Once()

	svc := NewNotificationService(nil, m, logger.NewNopLogger())
	event := events.NewBookingCommitted("b-1", "A", "a@x.com", "2025-03-01", "14:30", time.Now())

	assert.Error(t, svc.HandleBookingCommitted(context.Background(), event), "mail failure must nak for redelivery")
	m.AssertExpectations(t)

	noMail := NewNotificationService(nil, nil, logger.NewNopLogger())
	assert.NoError(t, noMail.HandleBookingCommitted(context.Background(), event))
}
