// Package chat answers user questions over their uploaded documents with
// retrieval-augmented generation: per-document similarity search feeds a
// bounded context block into the LLM alongside recent conversation history.
package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
	"github.com/explicare/explicare/internal/services/extract"
	"github.com/explicare/explicare/internal/services/index"
)

const defaultHistoryWindow = 10

// Options tune the chat pipeline. Zero values select the defaults.
type Options struct {
	ContextBudget int
	HistoryWindow int
}

// Service implements ChatService. A chat turn never returns an error to
// the caller: retrieval misses produce a fixed no-relevant-info answer
// and generation failures produce an apologetic one, and the turn is
// recorded either way.
type Service struct {
	storage    interfaces.StorageManager
	cache      *extract.Cache
	builder    *index.Builder
	retriever  *index.Retriever
	llmService interfaces.LLMService
	opts       Options
	logger     arbor.ILogger

	mu      sync.Mutex
	history map[string][]models.ConversationTurn
}

// NewService creates the chat service.
func NewService(storage interfaces.StorageManager, cache *extract.Cache, builder *index.Builder, retriever *index.Retriever, llmService interfaces.LLMService, opts Options, logger arbor.ILogger) *Service {
	if opts.ContextBudget <= 0 {
		opts.ContextBudget = defaultContextBudget
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	return &Service{
		storage:    storage,
		cache:      cache,
		builder:    builder,
		retriever:  retriever,
		llmService: llmService,
		opts:       opts,
		logger:     logger,
		history:    make(map[string][]models.ConversationTurn),
	}
}

var _ interfaces.ChatService = (*Service)(nil)

// Chat answers a question against all of the user's documents.
func (s *Service) Chat(ctx context.Context, req *interfaces.ChatRequest) (*interfaces.ChatResponse, error) {
	start := time.Now()

	docs, err := s.storage.DocumentStorage().ListDocumentsByUser(ctx, req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID).Msg("Failed to list user documents")
		docs = nil
	}

	chunks, contributing := s.retrieveAcrossDocuments(ctx, docs, req.Query)
	contextBlock, used := AssembleContext(chunks, s.opts.ContextBudget)

	var message string
	if contextBlock == "" {
		message = noRelevantInfoMessage
	} else {
		message = s.generate(ctx, req.UserID, contextBlock, req.Query)
	}

	s.recordTurn(ctx, req.UserID, req.Query, message, contributing, docs)

	s.logger.Info().
		Str("user_id", req.UserID).
		Int("documents", len(docs)).
		Int("context_chunks", used).
		Dur("duration", time.Since(start)).
		Msg("Chat turn completed")

	return &interfaces.ChatResponse{
		Message:       message,
		ContextChunks: used,
		Model:         s.llmService.ModelName(),
	}, nil
}

// HealthCheck verifies the underlying LLM provider is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.llmService.HealthCheck(ctx)
}

// retrieveAcrossDocuments runs retrieval per document and merges the
// results by descending score. Documents whose extracted text or index
// is unavailable are skipped, not fatal. Returns the merged chunks and
// the IDs of documents that contributed at least one.
func (s *Service) retrieveAcrossDocuments(ctx context.Context, docs []*models.Document, query string) ([]models.ScoredChunk, []string) {
	var merged []models.ScoredChunk
	var contributing []string

	for _, doc := range docs {
		text, ok := s.cache.Get(doc.ID)
		if !ok {
			s.logger.Warn().Str("doc_id", doc.ID).Msg("Extracted text missing from cache, skipping document")
			continue
		}

		ix, err := s.builder.BuildOrLoad(ctx, doc.ID, text)
		if err != nil {
			s.logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Index unavailable, skipping document")
			continue
		}

		results, err := s.retriever.Retrieve(ctx, ix, query)
		if err != nil {
			s.logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("Retrieval failed, skipping document")
			continue
		}
		if len(results) > 0 {
			merged = append(merged, results...)
			contributing = append(contributing, doc.ID)
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Score > merged[b].Score
	})

	return merged, contributing
}

// generate runs the LLM call; failures degrade to a fixed apologetic
// answer.
func (s *Service) generate(ctx context.Context, userID, contextBlock, question string) string {
	history := s.userHistory(userID)

	response, err := s.llmService.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: buildChatPrompt(history, contextBlock, question)},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Chat generation failed")
		return degradedAnswerMessage
	}
	return response
}

// recordTurn appends the question/answer pair to the in-memory user
// history and to the persisted conversation of every contributing
// document. When no document contributed, the turn is still recorded
// against all the user's documents so history is never silently lost.
func (s *Service) recordTurn(ctx context.Context, userID, question, answer string, contributing []string, docs []*models.Document) {
	turns := []models.ConversationTurn{
		{Role: "user", Content: question},
		{Role: "assistant", Content: answer},
	}

	s.mu.Lock()
	s.history[userID] = append(s.history[userID], turns...)
	if limit := s.opts.HistoryWindow; len(s.history[userID]) > limit {
		s.history[userID] = s.history[userID][len(s.history[userID])-limit:]
	}
	s.mu.Unlock()

	targets := contributing
	if len(targets) == 0 {
		for _, doc := range docs {
			targets = append(targets, doc.ID)
		}
	}

	for _, docID := range targets {
		conv, err := s.storage.ConversationStorage().GetConversation(ctx, docID)
		if err != nil || conv == nil {
			conv = &models.Conversation{DocumentID: docID}
		}
		conv.Turns = append(conv.Turns, turns...)
		conv.LastUpdated = time.Now()

		if err := s.storage.ConversationStorage().SaveConversation(ctx, conv); err != nil {
			s.logger.Warn().Err(err).Str("doc_id", docID).Msg("Failed to persist conversation turn")
		}
	}
}

func (s *Service) userHistory(userID string) []models.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.history[userID]
	out := make([]models.ConversationTurn, len(history))
	copy(out, history)
	return out
}
