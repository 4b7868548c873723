package app

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/common"
	"github.com/explicare/explicare/internal/handlers"
	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/services/analysis"
	"github.com/explicare/explicare/internal/services/chat"
	"github.com/explicare/explicare/internal/services/chunker"
	"github.com/explicare/explicare/internal/services/documents"
	"github.com/explicare/explicare/internal/services/embeddings"
	"github.com/explicare/explicare/internal/services/extract"
	"github.com/explicare/explicare/internal/services/index"
	"github.com/explicare/explicare/internal/services/llm"
	"github.com/explicare/explicare/internal/services/maintenance"
	"github.com/explicare/explicare/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Extraction pipeline
	ExtractService interfaces.ExtractService
	ExtractCache   *extract.Cache

	// Retrieval pipeline
	EmbeddingService interfaces.EmbeddingService
	IndexBuilder     *index.Builder
	Retriever        *index.Retriever

	// LLM service (Gemini or Claude)
	LLMService interfaces.LLMService

	// Document analysis
	AnalysisService *analysis.Service
	Exporter        *analysis.Exporter

	// Document service (upload pipeline)
	DocumentService *documents.Service

	// Chat service (RAG-enabled)
	ChatService interfaces.ChatService

	// Cache maintenance
	Sweeper *maintenance.Sweeper

	// HTTP handlers
	APIHandler          *handlers.APIHandler
	AuthHandler         *handlers.AuthHandler
	DocumentHandler     *handlers.DocumentHandler
	AnalysisHandler     *handlers.AnalysisHandler
	ChatHandler         *handlers.ChatHandler
	ConversationHandler *handlers.ConversationHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if cfg.Maintenance.Enabled {
		if err := app.Sweeper.Start(cfg.Maintenance.Schedule); err != nil {
			return nil, fmt.Errorf("failed to start cache sweeper: %w", err)
		}
	}

	logger.Info().
		Str("llm_provider", string(cfg.LLM.Provider)).
		Str("embeddings_backend", app.EmbeddingService.BackendName()).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger, a.Config.Storage.Filesystem.ConversationsDir)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices wires the extraction, retrieval, analysis and chat services
func (a *App) initServices() error {
	fs := a.Config.Storage.Filesystem

	extractService, err := extract.NewService(fs.CacheDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create extract service: %w", err)
	}
	a.ExtractService = extractService

	cache, err := extract.NewCache(fs.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to create extraction cache: %w", err)
	}
	a.ExtractCache = cache

	llmService, err := llm.NewLLMService(&a.Config.LLM, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	// Embedding backend. The lexical backend keeps retrieval working
	// without provider credentials; Gemini embeddings go through the
	// LLM service.
	switch a.Config.Embeddings.Backend {
	case "gemini":
		a.EmbeddingService = embeddings.NewService(llmService, a.Config.LLM.Gemini.EmbedDimension, a.Logger)
	default:
		a.EmbeddingService = embeddings.NewLexicalEmbedder(a.Config.Embeddings.Dimension)
	}

	ch := chunker.New(chunker.Options{
		ChunkSize:      a.Config.Chunking.ChunkSize,
		MinChunkLength: a.Config.Chunking.MinChunkLength,
		MaxChunks:      a.Config.Chunking.MaxChunks,
	})

	a.IndexBuilder = index.NewBuilder(fs.IndexDir, ch, a.EmbeddingService, a.Logger)
	a.Retriever = index.NewRetriever(a.EmbeddingService, index.RetrieverOptions{
		TopK:            a.Config.Retrieval.TopK,
		SimilarityFloor: a.Config.Retrieval.SimilarityFloor,
		DedupThreshold:  a.Config.Retrieval.DedupThreshold,
		OverfetchFactor: a.Config.Retrieval.OverfetchFactor,
	}, a.Logger)

	scanner, err := analysis.NewClauseScanner()
	if err != nil {
		return fmt.Errorf("failed to create clause scanner: %w", err)
	}
	a.AnalysisService = analysis.NewService(llmService, scanner, a.Config.Analysis.MaxInputChars, a.Logger)
	a.Exporter = analysis.NewExporter(a.Logger)

	documentService, err := documents.NewService(a.StorageManager, a.ExtractService, a.AnalysisService, a.ExtractCache, fs.CacheDir, a.Config.Extraction.OCRLanguage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create document service: %w", err)
	}
	a.DocumentService = documentService

	a.ChatService = chat.NewService(a.StorageManager, a.ExtractCache, a.IndexBuilder, a.Retriever, llmService, chat.Options{
		ContextBudget: a.Config.Retrieval.ContextBudget,
		HistoryWindow: a.Config.Retrieval.HistoryWindow,
	}, a.Logger)

	ttl, err := time.ParseDuration(a.Config.Maintenance.TTL)
	if err != nil {
		return fmt.Errorf("invalid maintenance TTL %q: %w", a.Config.Maintenance.TTL, err)
	}
	a.Sweeper = maintenance.NewSweeper(fs.CacheDir, fs.IndexDir, ttl, a.Logger)
	a.Sweeper.SetGC(a.StorageManager.RunGC)

	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.AuthHandler = handlers.NewAuthHandler(a.StorageManager.UserStorage(), a.Logger)
	a.DocumentHandler = handlers.NewDocumentHandler(a.DocumentService, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.DocumentService, a.Exporter, a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.ConversationHandler = handlers.NewConversationHandler(a.StorageManager.ConversationStorage(), a.Logger)
}

// Close shuts down background work and releases storage and provider
// resources.
func (a *App) Close() error {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage manager")
			return err
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
