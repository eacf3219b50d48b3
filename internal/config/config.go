package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Chat      ChatConfig
	Oracle    OracleConfig
	Embedding EmbeddingConfig
	Ingestion IngestionConfig
	SMTP      SMTPConfig
	Keys      APIKeys
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	RagLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection    string
	RunMigrations bool
}

type RedisConfig struct {
	URL string
}

type ChatConfig struct {
	// "redis" or "memory"
	ConversationStore string
	SessionTTL        time.Duration
	HistoryMaxTurns   int
	TopK              int
	SessionLock       bool
}

type OracleConfig struct {
	Provider    string // "openrouter", "openai" or "ollama"
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type EmbeddingConfig struct {
	Provider string // "ollama", "gemini" or "openai"
	BaseURL  string
	Model    string
}

type IngestionConfig struct {
	UploadDir       string
	DefaultStrategy string
	Topic           string
	ChunkSize       int
	ChunkOverlap    int
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type APIKeys struct {
	OpenRouter   string
	OpenAI       string
	GoogleGemini string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RagLogFilePath:     getEnv("RAG_LOG_FILE_PATH", "logs/llm_rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection:    getEnv("DB_CONNECTION_STRING", ""),
			RunMigrations: getEnvAsBool("DB_RUN_MIGRATIONS", false),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Chat: ChatConfig{
			ConversationStore: getEnv("CONVERSATION_STORE", "redis"),
			SessionTTL:        getEnvAsDuration("CHAT_SESSION_TTL", 500*time.Second),
			HistoryMaxTurns:   getEnvAsInt("HISTORY_MAX_TURNS", 20),
			TopK:              getEnvAsInt("RETRIEVAL_TOP_K", 3),
			SessionLock:       getEnvAsBool("CHAT_SESSION_LOCK", true),
		},
		Oracle: OracleConfig{
			Provider:    getEnv("LLM_PROVIDER", "openrouter"),
			BaseURL:     getEnv("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnv("LLM_MODEL", "stepfun/step-3.5-flash:free"),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.1),
			Timeout:     getEnvAsDuration("ORACLE_TIMEOUT", 60*time.Second),
		},
		Embedding: EmbeddingConfig{
			Provider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			BaseURL:  getEnv("EMBEDDING_BASE_URL", "http://localhost:11434/v1"),
			Model:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Ingestion: IngestionConfig{
			UploadDir:       getEnv("INGESTION_UPLOAD_DIR", "data/booking_files"),
			DefaultStrategy: getEnv("INGESTION_DEFAULT_STRATEGY", "recursive"),
			Topic:           getEnv("INGESTION_TOPIC_NAME", "REINDEX_KNOWLEDGE"),
			ChunkSize:       getEnvAsInt("INGESTION_CHUNK_SIZE", 1000),
			ChunkOverlap:    getEnvAsInt("INGESTION_CHUNK_OVERLAP", 200),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Interview Desk"),
		},
		Keys: APIKeys{
			OpenRouter:   getEnv("OPENROUTER_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// Accepts Go durations ("90s") or bare seconds ("500").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
