package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/common"
	"github.com/explicare/explicare/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db           *BadgerDB
	user         interfaces.UserStorage
	document     interfaces.DocumentStorage
	conversation interfaces.ConversationStorage
	logger       arbor.ILogger
}

// NewManager creates a new Badger storage manager. conversationsDir is
// where conversation JSON mirrors are written.
func NewManager(logger arbor.ILogger, config *common.BadgerConfig, conversationsDir string) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:           db,
		user:         NewUserStorage(db, logger),
		document:     NewDocumentStorage(db, logger),
		conversation: NewConversationStorage(db, conversationsDir, logger),
		logger:       logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// UserStorage returns the User storage interface
func (m *Manager) UserStorage() interfaces.UserStorage {
	return m.user
}

// DocumentStorage returns the Document storage interface
func (m *Manager) DocumentStorage() interfaces.DocumentStorage {
	return m.document
}

// ConversationStorage returns the Conversation storage interface
func (m *Manager) ConversationStorage() interfaces.ConversationStorage {
	return m.conversation
}

// RunGC reclaims discardable database space
func (m *Manager) RunGC() error {
	return m.db.RunGC()
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
