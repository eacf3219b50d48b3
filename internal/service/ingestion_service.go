package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"interview-rag-be/internal/dto"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/pkg/chunking"

	"github.com/google/uuid"
)

type IIngestionService interface {
	// Upload validates before touching disk, stores the file, then queues a reindex
	Upload(ctx context.Context, fileName string, content io.Reader, chunkStrategy string) (*dto.UploadFileResponse, error)
}

type ingestionService struct {
	uploadDir        string
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewIngestionService(uploadDir string, publisherService IPublisherService, log logger.ILogger) IIngestionService {
	return &ingestionService{
		uploadDir:        uploadDir,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *ingestionService) Upload(ctx context.Context, fileName string, content io.Reader, chunkStrategy string) (*dto.UploadFileResponse, error) {
	strategy, err := chunking.ParseStrategy(chunkStrategy)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(filepath.Clean("/" + fileName))
	if name == "/" || name == "." || !chunking.IsSupportedFile(name) {
		return nil, fmt.Errorf("%w: %q", chunking.ErrUnsupportedFileType, fileName)
	}

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if err := writeFile(filepath.Join(s.uploadDir, name), content); err != nil {
		return nil, err
	}
	s.logger.Info("INGESTION", "Uploaded file saved", map[string]interface{}{"file": name})

	msg := dto.PublishReindexMessage{
		JobId:         uuid.New(),
		ChunkStrategy: string(strategy),
		FileName:      name,
	}
	if err := s.publisherService.Publish(ctx, msg); err != nil {
		return nil, fmt.Errorf("queue reindex: %w", err)
	}

	return &dto.UploadFileResponse{
		JobId:         msg.JobId,
		FileName:      name,
		ChunkStrategy: string(strategy),
	}, nil
}

// writeFile goes through a temp file so a half-written upload is never indexed
func writeFile(path string, content io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
