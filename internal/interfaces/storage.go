package interfaces

import (
	"context"

	"github.com/explicare/explicare/internal/models"
)

// UserStorage persists registered users.
type UserStorage interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// DocumentStorage persists document records (upload metadata + report).
type DocumentStorage interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByUser(ctx context.Context, userID string) ([]*models.Document, error)
}

// ConversationStorage persists per-document conversation records.
// Write failures are logged by callers and never block a chat response.
type ConversationStorage interface {
	SaveConversation(ctx context.Context, conv *models.Conversation) error
	GetConversation(ctx context.Context, documentID string) (*models.Conversation, error)
}

// StorageManager provides access to all storage backends
type StorageManager interface {
	UserStorage() UserStorage
	DocumentStorage() DocumentStorage
	ConversationStorage() ConversationStorage

	// RunGC reclaims storage space; safe to call on a schedule.
	RunGC() error

	Close() error
}
