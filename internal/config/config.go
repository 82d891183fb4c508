package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Ingestion IngestionConfig
	Workflow  WorkflowConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI      string
	IngestTopic string // Watermill topic for document ingestion
}

type AIConfig struct {
	LLMProvider        string // "openai" or "ollama"
	LLMModel           string
	EmbeddingProvider  string // "openai" or "ollama"
	EmbeddingModel     string
	EmbeddingDimension int
	OllamaBaseURL      string
}

type IngestionConfig struct {
	ChunkSize      int // max tokens per chunk
	ChunkOverlap   int // tokens shared between consecutive chunks
	BatchSize      int // chunks per embedding request
	BatchWorkers   int // concurrent embedding batches
	EmbedRetries   int // retries per batch before EmbeddingError
	TokenizerModel string
}

type WorkflowConfig struct {
	TopK               int
	ContextTokenBudget int
	MaxAttempts        int
	PassThreshold      float64
	RetryPassRate      float64
	ValidatorWorkers   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:      getEnv("OPENAI_API_KEY", ""),
			IngestTopic: getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_SYLLABUS_DOCUMENT"),
		},
		Ai: AIConfig{
			LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
			LLMModel:           getEnv("LLM_MODEL", "gpt-4o"),
			EmbeddingProvider:  getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimension: getEnvAsInt("EMBEDDING_DIMENSION", 1536),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Ingestion: IngestionConfig{
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:   getEnvAsInt("CHUNK_OVERLAP", 200),
			BatchSize:      getEnvAsInt("EMBED_BATCH_SIZE", 100),
			BatchWorkers:   getEnvAsInt("EMBED_BATCH_WORKERS", 3),
			EmbedRetries:   getEnvAsInt("EMBED_BATCH_RETRIES", 3),
			TokenizerModel: getEnv("TOKENIZER_MODEL", "gpt-4"),
		},
		Workflow: WorkflowConfig{
			TopK:               getEnvAsInt("RETRIEVAL_TOP_K", 5),
			ContextTokenBudget: getEnvAsInt("CONTEXT_TOKEN_BUDGET", 3000),
			MaxAttempts:        getEnvAsInt("MAX_GENERATION_ATTEMPTS", 3),
			PassThreshold:      getEnvAsFloat("VALIDATION_PASS_THRESHOLD", 0.6),
			RetryPassRate:      getEnvAsFloat("RETRY_PASS_RATE", 0.5),
			ValidatorWorkers:   getEnvAsInt("VALIDATOR_WORKERS", 4),
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
