package bootstrap

import (
	"context"
	"log"

	"ai-papergen-be/internal/config"
	"ai-papergen-be/internal/controller"
	"ai-papergen-be/internal/pkg/logger"
	"ai-papergen-be/internal/repository/unitofwork"
	"ai-papergen-be/internal/service"
	"ai-papergen-be/internal/websocket"
	"ai-papergen-be/pkg/chunker"
	"ai-papergen-be/pkg/embedding"
	"ai-papergen-be/pkg/extractor"
	"ai-papergen-be/pkg/ingest"
	"ai-papergen-be/pkg/knowledge"
	"ai-papergen-be/pkg/llm/factory"
	"ai-papergen-be/pkg/tokenizer"
	"ai-papergen-be/pkg/workflow"

	pktNats "ai-papergen-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SyllabusController controller.ISyllabusController
	PaperController    controller.IPaperController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Infrastructure handles main.go must close on shutdown
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Keys.OpenAI,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Ingestion Pipeline
	tok, err := tokenizer.New(cfg.Ingestion.TokenizerModel)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize tokenizer: %v", err)
	}
	chk := chunker.New(tok, cfg.Ingestion.ChunkSize, cfg.Ingestion.ChunkOverlap)

	baseUow := uowFactory.NewUnitOfWork(context.Background())
	store := knowledge.NewPgStore(
		baseUow.SyllabusChunkRepository(),
		baseUow.SyllabusDocumentRepository(),
		embeddingProvider,
	)
	batcher := ingest.NewBatcher(
		embeddingProvider,
		store,
		cfg.Ingestion.BatchSize,
		cfg.Ingestion.BatchWorkers,
		cfg.Ingestion.EmbedRetries,
	)

	// 5. Generation Workflow
	retriever := workflow.NewRetriever(store, tok, cfg.Workflow.TopK, cfg.Workflow.ContextTokenBudget)
	generator := workflow.NewGenerator(llmProvider, 0.7)
	validator := workflow.NewValidator(llmProvider, cfg.Workflow.ValidatorWorkers, cfg.Workflow.PassThreshold)
	orchestrator := workflow.NewOrchestrator(retriever, generator, validator, cfg.Workflow.MaxAttempts, cfg.Workflow.RetryPassRate)

	// 6. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		chk,
		batcher,
		wsHub,
		natsPub,
	)

	syllabusService := service.NewSyllabusService(
		uowFactory,
		publisherService,
		store,
		extractor.New(),
		natsPub,
	)
	paperService := service.NewPaperService(uowFactory, orchestrator, natsPub)

	// 8. Controllers
	return &Container{
		SyllabusController: controller.NewSyllabusController(syllabusService, wsHub),
		PaperController:    controller.NewPaperController(paperService),
		ConsumerService:    consumerService,
		WebSocketHub:       wsHub,
		NatsPublisher:      natsPub,
	}
}
