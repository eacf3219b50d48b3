package chunking

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Strategy selects how loaded documents become chunks
type Strategy string

const (
	// StrategyDocument keeps every loaded document (one PDF page, one text file) whole
	StrategyDocument Strategy = "document"
	// StrategyRecursive splits documents on paragraph, line and word boundaries
	StrategyRecursive Strategy = "recursive"
)

// UploadedTimeLayout is dd/mm/yyyy HH:MM:SS
const UploadedTimeLayout = "02/01/2006 15:04:05"

var (
	ErrUnsupportedStrategy = errors.New("chunking strategy not supported")
	ErrUnsupportedFileType = errors.New("file type not supported")
	ErrNoDocuments         = errors.New("no documents to index")
)

var (
	SupportedExtensions = []string{".pdf", ".txt"}
	recursiveSeparators = []string{"\n\n", "\n", " ", ""}
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyDocument:
		return StrategyDocument, nil
	case StrategyRecursive:
		return StrategyRecursive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, s)
	}
}

// IsSupportedFile matches on extension only, case sensitive like the upload form
func IsSupportedFile(name string) bool {
	ext := filepath.Ext(name)
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

func DefaultConfig() Config {
	return Config{ChunkSize: 1000, ChunkOverlap: 200}
}

// Chunk is one indexable piece of text plus its provenance
type Chunk struct {
	ID           string
	Text         string
	Index        int
	Source       string
	Page         int
	UploadedTime string
}

// Chunker loads every supported file under a directory and splits it
type Chunker struct {
	dir      string
	splitter textsplitter.TextSplitter
	newID    func() string
}

func NewChunker(dir string, cfg Config) *Chunker {
	if cfg.ChunkSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Chunker{
		dir: dir,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.ChunkSize),
			textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
			textsplitter.WithSeparators(recursiveSeparators),
		),
		newID: uuid.NewString,
	}
}

func (c *Chunker) Dir() string {
	return c.dir
}

// CreateChunks loads the whole directory and applies the strategy
func (c *Chunker) CreateChunks(ctx context.Context, strategy Strategy, now time.Time) ([]Chunk, error) {
	docs, err := c.LoadDocuments(ctx)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyDocument:
	case StrategyRecursive:
		docs, err = textsplitter.SplitDocuments(c.splitter, docs)
		if err != nil {
			return nil, fmt.Errorf("split documents: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, strategy)
	}

	chunks := c.toChunks(docs, now)
	if len(chunks) == 0 {
		return nil, ErrNoDocuments
	}
	return chunks, nil
}

// LoadDocuments reads PDFs page by page and text files whole, in path order
func (c *Chunker) LoadDocuments(ctx context.Context) ([]schema.Document, error) {
	var paths []string
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsSupportedFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", c.dir, err)
	}
	sort.Strings(paths)

	var docs []schema.Document
	for _, path := range paths {
		loaded, err := loadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

func loadFile(ctx context.Context, path string) ([]schema.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var docs []schema.Document
	switch filepath.Ext(path) {
	case ".pdf":
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		docs, err = documentloaders.NewPDF(f, info.Size()).Load(ctx)
		if err != nil {
			return nil, err
		}
	case ".txt":
		docs, err = documentloaders.NewText(f).Load(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnsupportedFileType
	}

	for i := range docs {
		if docs[i].Metadata == nil {
			docs[i].Metadata = map[string]any{}
		}
		docs[i].Metadata["source"] = path
	}
	return docs, nil
}

func (c *Chunker) toChunks(docs []schema.Document, now time.Time) []Chunk {
	uploaded := now.Format(UploadedTimeLayout)
	chunks := make([]Chunk, 0, len(docs))
	for _, doc := range docs {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}
		i := len(chunks)
		chunks = append(chunks, Chunk{
			ID:           chunkID(c.newID(), i),
			Text:         doc.PageContent,
			Index:        i,
			Source:       metadataString(doc.Metadata, "source"),
			Page:         metadataInt(doc.Metadata, "page"),
			UploadedTime: uploaded,
		})
	}
	return chunks
}

// chunkID yields doc_<8 hex>_<position>
func chunkID(seed string, i int) string {
	hex := strings.ReplaceAll(seed, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return fmt.Sprintf("doc_%s_%d", hex, i)
}

func metadataString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func metadataInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
