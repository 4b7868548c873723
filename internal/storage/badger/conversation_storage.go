package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
)

// ConversationStorage implements the ConversationStorage interface for
// Badger, mirroring each record to a JSON file in the conversations
// directory so a conversation can be inspected or exported without the
// database.
type ConversationStorage struct {
	db      *BadgerDB
	fileDir string
	logger  arbor.ILogger
}

// NewConversationStorage creates a new ConversationStorage instance.
// fileDir may be empty to disable the JSON file mirror.
func NewConversationStorage(db *BadgerDB, fileDir string, logger arbor.ILogger) interfaces.ConversationStorage {
	if fileDir != "" {
		if err := os.MkdirAll(fileDir, 0755); err != nil {
			logger.Warn().Err(err).Str("dir", fileDir).Msg("Failed to create conversations directory, file mirror disabled")
			fileDir = ""
		}
	}
	return &ConversationStorage{
		db:      db,
		fileDir: fileDir,
		logger:  logger,
	}
}

func (s *ConversationStorage) SaveConversation(_ context.Context, conv *models.Conversation) error {
	if conv.DocumentID == "" {
		return fmt.Errorf("conversation document ID is required")
	}
	if conv.LastUpdated.IsZero() {
		conv.LastUpdated = time.Now()
	}

	if err := s.db.Store().Upsert(conv.DocumentID, conv); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	s.mirrorToFile(conv)
	return nil
}

func (s *ConversationStorage) GetConversation(_ context.Context, documentID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.Store().Get(documentID, &conv); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("conversation not found: %s", documentID)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

// mirrorToFile writes the conversation as conversation_<docid>.json.
// Mirror failures are logged, never surfaced: the database copy is the
// source of truth.
func (s *ConversationStorage) mirrorToFile(conv *models.Conversation) {
	if s.fileDir == "" {
		return
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		s.logger.Warn().Err(err).Str("doc_id", conv.DocumentID).Msg("Failed to marshal conversation for file mirror")
		return
	}

	path := filepath.Join(s.fileDir, fmt.Sprintf("conversation_%s.json", conv.DocumentID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to write conversation file")
	}
}
