package bootstrap

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"interview-rag-be/internal/config"
	"interview-rag-be/internal/controller"
	"interview-rag-be/internal/pkg/logger"
	"interview-rag-be/internal/pkg/mailer"
	"interview-rag-be/internal/repository/cache"
	"interview-rag-be/internal/repository/contract"
	"interview-rag-be/internal/repository/implementation"
	"interview-rag-be/internal/repository/memory"
	"interview-rag-be/internal/repository/unitofwork"
	"interview-rag-be/internal/service"
	"interview-rag-be/pkg/chunking"
	"interview-rag-be/pkg/embedding"
	"interview-rag-be/pkg/events"
	"interview-rag-be/pkg/llm/factory"
	pktNats "interview-rag-be/pkg/nats"
	"interview-rag-be/pkg/rag/booking"
	"interview-rag-be/pkg/rag/executor"
	"interview-rag-be/pkg/rag/history"
	"interview-rag-be/pkg/rag/search"
	"interview-rag-be/pkg/rag/session"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatbotController   controller.IChatbotController
	IngestionController controller.IIngestionController
	BookingController   controller.IBookingController
	HealthController    controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	Logger logger.ILogger

	closers []func()
}

// Close releases connections in reverse order of creation
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := initRAGLogger(cfg.App.RagLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = sysLogger.Sync() })

	// 2. Providers
	embeddingProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Embedding.Provider, cfg.Embedding.Model)

	llmProvider, err := factory.NewLLMProvider(cfg.Oracle.Provider, cfg.Oracle.Model, cfg.Oracle.BaseURL, oracleKey(cfg))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Oracle.Provider, cfg.Oracle.Model)

	// 3. Conversation Store
	conversations, err := newConversationStore(cfg, c)
	if err != nil {
		return nil, err
	}

	// 4. Event Bus (optional)
	var publisher events.Publisher = events.NopPublisher{}
	var natsSub *pktNats.Subscriber
	if cfg.App.NatsURL != "" {
		nc, err := pktNats.Connect(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] NATS unavailable, domain events disabled: %v", err)
		} else {
			c.closers = append(c.closers, func() { nc.Close() })
			publisher, natsSub = newNatsClients(nc, publisher)
		}
	}

	var emailService mailer.IEmailService
	if cfg.SMTP.Host != "" {
		emailService = mailer.NewEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password, cfg.SMTP.Email, cfg.SMTP.SenderName)
	}
	if natsSub != nil {
		c.NotificationService = service.NewNotificationService(natsSub, emailService, sysLogger)
		c.closers = append(c.closers, natsSub.Stop)
	}

	// 5. Dialogue
	bookingService := service.NewBookingService(uowFactory, publisher, sysLogger)
	retriever := search.NewOrchestrator(
		embeddingProvider,
		implementation.NewKnowledgeChunkRepository(db),
		search.Config{TopK: cfg.Chat.TopK, Threshold: implementation.NoSimilarityThreshold},
		ragLogger,
	)
	pipelineExecutor := executor.NewPipelineExecutor(
		retriever,
		history.NewLoader(conversations, cfg.Chat.HistoryMaxTurns),
		llmProvider,
		booking.NewValidator(),
		bookingService,
		executor.Config{OracleTimeout: cfg.Oracle.Timeout, Temperature: cfg.Oracle.Temperature},
		ragLogger,
	)
	chatbotService := service.NewChatbotService(
		session.NewManager(nil),
		pipelineExecutor,
		conversations,
		cfg.Chat.SessionLock,
		sysLogger,
	)

	// 6. Ingestion
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	knowledgeService := service.NewKnowledgeService(uowFactory, newChunker(cfg), embeddingProvider, publisher, sysLogger)
	publisherService := service.NewPublisherService(cfg.Ingestion.Topic, pubSub)
	ingestionService := service.NewIngestionService(cfg.Ingestion.UploadDir, publisherService, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Ingestion.Topic, knowledgeService)

	// 7. Controllers
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.IngestionController = controller.NewIngestionController(ingestionService, knowledgeService, cfg.Ingestion.DefaultStrategy)
	c.BookingController = controller.NewBookingController(bookingService)
	c.HealthController = controller.NewHealthController(map[string]controller.Pinger{
		"postgres":      controller.PingFunc(sqlDB.PingContext),
		"conversations": conversations,
	})

	return c, nil
}

// NewKnowledgeService builds only the reindex path, for the operator CLI
func NewKnowledgeService(db *gorm.DB, cfg *config.Config, log logger.ILogger) (service.IKnowledgeService, error) {
	embeddingProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewKnowledgeService(unitofwork.NewRepositoryFactory(db), newChunker(cfg), embeddingProvider, nil, log), nil
}

func newChunker(cfg *config.Config) *chunking.Chunker {
	return chunking.NewChunker(cfg.Ingestion.UploadDir, chunking.Config{
		ChunkSize:    cfg.Ingestion.ChunkSize,
		ChunkOverlap: cfg.Ingestion.ChunkOverlap,
	})
}

func newEmbeddingProvider(cfg *config.Config) (embedding.EmbeddingProvider, error) {
	var apiKey string
	switch cfg.Embedding.Provider {
	case embedding.ProviderOpenAI:
		apiKey = cfg.Keys.OpenAI
	case embedding.ProviderGemini:
		apiKey = cfg.Keys.GoogleGemini
	}
	p, err := embedding.NewProvider(cfg.Embedding.Provider, cfg.Embedding.BaseURL, cfg.Embedding.Model, apiKey)
	if err != nil {
		return nil, fmt.Errorf("initialize embedding provider: %w", err)
	}
	return p, nil
}

func oracleKey(cfg *config.Config) string {
	switch cfg.Oracle.Provider {
	case factory.ProviderOpenAI:
		return cfg.Keys.OpenAI
	case factory.ProviderOpenRouter:
		return cfg.Keys.OpenRouter
	default:
		return ""
	}
}

func newConversationStore(cfg *config.Config, c *Container) (contract.ConversationRepository, error) {
	if cfg.Chat.ConversationStore == "memory" {
		log.Printf("[INFO] Conversation store: in-memory (ttl %s)", cfg.Chat.SessionTTL)
		return memory.NewConversationRepository(cfg.Chat.SessionTTL), nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.Redis.URL}
	}
	rdb := redis.NewClient(opt)
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	log.Printf("[INFO] Conversation store: redis (ttl %s)", cfg.Chat.SessionTTL)
	return cache.NewConversationRepository(rdb, cfg.Chat.SessionTTL), nil
}

func newNatsClients(nc *nats.Conn, fallback events.Publisher) (events.Publisher, *pktNats.Subscriber) {
	publisher := fallback
	pub, err := pktNats.NewPublisher(nc)
	if err != nil {
		log.Printf("[WARN] NATS publisher disabled: %v", err)
	} else {
		publisher = pub
	}

	sub, err := pktNats.NewSubscriber(nc)
	if err != nil {
		log.Printf("[WARN] NATS subscriber disabled: %v", err)
		return publisher, nil
	}
	return publisher, sub
}

func initRAGLogger(logPath string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
