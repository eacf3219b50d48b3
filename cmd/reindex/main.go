package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"interview-rag-be/internal/bootstrap"
	"interview-rag-be/internal/config"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/pkg/chunking"
	"interview-rag-be/pkg/database"

	"github.com/fatih/color"
)

// Rebuilds the knowledge base from the upload directory without going through the HTTP queue.
func main() {
	cfg := config.Load()
	strategy := flag.String("strategy", cfg.Ingestion.DefaultStrategy, "chunking strategy: document or recursive")
	flag.Parse()

	color.Cyan("🚀 Reindexing %s (strategy=%s)\n", cfg.Ingestion.UploadDir, *strategy)

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	knowledgeService, err := bootstrap.NewKnowledgeService(db, cfg, logger.NewZapLogger(cfg.App.LogFilePath, false))
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	parsed, err := chunking.ParseStrategy(*strategy)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := knowledgeService.Reindex(ctx, parsed)
	if err != nil {
		color.Red("Reindex failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Generation %s is live", result.GenerationId)
	color.White("   documents: %d", result.DocumentCount)
	color.White("   chunks:    %d", result.ChunkCount)
	color.White("   replaced:  %d generation(s)", result.Replaced)
	color.Yellow("   took:      %s", result.Duration)
}
