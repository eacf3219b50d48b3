package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/serverutils"
	"interview-rag-be/pkg/chunking"
	"interview-rag-be/pkg/rag/executor"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChatbotService struct {
	mock.Mock
}

func (m *mockChatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	args := m.Called(request.SessionId, request.Query)
	res, _ := args.Get(0).(*dto.SendChatResponse)
	return res, args.Error(1)
}

func (m *mockChatbotService) GetChatHistory(ctx context.Context, sessionId string) (*dto.GetChatHistoryResponse, error) {
	args := m.Called(sessionId)
	res, _ := args.Get(0).(*dto.GetChatHistoryResponse)
	return res, args.Error(1)
}

type mockIngestionService struct {
	mock.Mock
}

func (m *mockIngestionService) Upload(ctx context.Context, fileName string, content io.Reader, chunkStrategy string) (*dto.UploadFileResponse, error) {
	args := m.Called(fileName, chunkStrategy)
	res, _ := args.Get(0).(*dto.UploadFileResponse)
	return res, args.Error(1)
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: serverutils.NewErrorHandler(logger.NewNopLogger())})
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestChatbotController_Ask(t *testing.T) {
	svc := &mockChatbotService{}
	svc.On("SendChat", "", "What is his email?").Return(&dto.SendChatResponse{
		SessionId: "new-session",
		Query:     "What is his email?",
		Reply:     "john@example.com",
		Route:     "rag",
	}, nil)

	app := newTestApp()
	NewChatbotController(svc).RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/chat/v1?query=What%20is%20his%20email%3F", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "new-session", data["session_id"])
	assert.Equal(t, "john@example.com", data["reply"])
}

func TestChatbotController_SendChat(t *testing.T) {
	svc := &mockChatbotService{}
	svc.On("SendChat", "s1", "Book an interview").Return(&dto.SendChatResponse{SessionId: "s1", Reply: "ok", Route: "booking"}, nil)

	app := newTestApp()
	NewChatbotController(svc).RegisterRoutes(app.Group("/api"))

	req := httptest.NewRequest("POST", "/api/chat/v1", bytes.NewBufferString(`{"query":"Book an interview","session_id":"s1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestChatbotController_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		svcErr   error
		wantCode int
	}{
		{"missing query", "/api/chat/v1?session_id=s1", nil, 400},
		{"blank query", "/api/chat/v1?query=%20%20", nil, 400},
		{"store down", "/api/chat/v1?query=hi", executor.ErrStoreUnavailable, 503},
		{"ledger down", "/api/chat/v1?query=hi", executor.ErrLedgerUnavailable, 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockChatbotService{}
			svc.On("SendChat", mock.Anything, mock.Anything).Return(nil, tt.svcErr)

			app := newTestApp()
			NewChatbotController(svc).RegisterRoutes(app.Group("/api"))

			resp, err := app.Test(httptest.NewRequest("GET", tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			body := decodeBody(t, resp.Body)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func multipartUpload(t *testing.T, target, fileName string) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, _ = part.Write([]byte("John Doe"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", target, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestIngestionController_Upload(t *testing.T) {
	svc := &mockIngestionService{}
	svc.On("Upload", "cv.pdf", "recursive").Return(&dto.UploadFileResponse{FileName: "cv.pdf", ChunkStrategy: "recursive"}, nil)
	svc.On("Upload", "cv.pdf", "semantic").Return(nil, chunking.ErrUnsupportedStrategy)
	svc.On("Upload", "cv.docx", "recursive").Return(nil, chunking.ErrUnsupportedFileType)

	app := newTestApp()
	NewIngestionController(svc, nil, "recursive").RegisterRoutes(app.Group("/api"))

	tests := []struct {
		name     string
		target   string
		file     string
		wantCode int
	}{
		{"default strategy", "/api/ingestion/v1/upload", "cv.pdf", 202},
		{"bad strategy", "/api/ingestion/v1/upload?chunk_strategy=semantic", "cv.pdf", 400},
		{"bad extension", "/api/ingestion/v1/upload?chunk_strategy=recursive", "cv.docx", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartUpload(t, tt.target, tt.file))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}

func TestHealthController(t *testing.T) {
	app := newTestApp()
	NewHealthController(map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return assert.AnError }),
	}).RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
