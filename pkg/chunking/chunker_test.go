package chunking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"document", StrategyDocument, false},
		{"recursive", StrategyRecursive, false},
		{" Recursive ", StrategyRecursive, false},
		{"semantic", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnsupportedStrategy))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("cv.pdf"))
	assert.True(t, IsSupportedFile("notes.txt"))
	assert.False(t, IsSupportedFile("cv.docx"))
	assert.False(t, IsSupportedFile("noext"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestChunker_DocumentStrategyKeepsFilesWhole(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "John Doe is a backend engineer.")
	writeFile(t, dir, "b.txt", "He lives in Kathmandu.")
	writeFile(t, dir, "ignored.md", "# not indexed")

	now := time.Date(2025, 3, 1, 14, 30, 5, 0, time.UTC)
	chunks, err := NewChunker(dir, DefaultConfig()).CreateChunks(context.Background(), StrategyDocument, now)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "John Doe is a backend engineer.", chunks[0].Text)
	assert.Equal(t, filepath.Join(dir, "a.txt"), chunks[0].Source)
	assert.Equal(t, "01/03/2025 14:30:05", chunks[0].UploadedTime)

	idPattern := regexp.MustCompile(`^doc_[0-9a-f]{8}_\d+$`)
	for i, c := range chunks {
		assert.Regexp(t, idPattern, c.ID)
		assert.True(t, strings.HasSuffix(c.ID, fmt.Sprintf("_%d", i)))
		assert.Equal(t, i, c.Index)
	}
}

func TestChunker_RecursiveStrategySplitsLongText(t *testing.T) {
	dir := t.TempDir()
	paragraph := strings.Repeat("word ", 60)
	writeFile(t, dir, "long.txt", strings.Join([]string{paragraph, paragraph, paragraph}, "\n\n"))

	chunks, err := NewChunker(dir, Config{ChunkSize: 400, ChunkOverlap: 50}).
		CreateChunks(context.Background(), StrategyRecursive, time.Now())
	require.NoError(t, err)

	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 400)
	}
}

func TestChunker_EmptyDirectory(t *testing.T) {
	_, err := NewChunker(t.TempDir(), DefaultConfig()).CreateChunks(context.Background(), StrategyRecursive, time.Now())
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestChunker_RejectsUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "content")
	_, err := NewChunker(dir, DefaultConfig()).CreateChunks(context.Background(), Strategy("semantic"), time.Now())
	assert.ErrorIs(t, err, ErrUnsupportedStrategy)
}
