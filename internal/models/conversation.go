package models

import (
	"time"
)

// ConversationTurn is one (role, content) entry in a conversation.
// Role is "user" or "assistant".
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered history of question/answer turns for one
// document. It is appended to after every chat turn, including turns whose
// answer was a degraded error message.
type Conversation struct {
	DocumentID  string             `json:"document_id"`
	Turns       []ConversationTurn `json:"conversations"`
	LastUpdated time.Time          `json:"last_updated"`
}

// Window returns the last n turns, or all turns when fewer exist.
func (c *Conversation) Window(n int) []ConversationTurn {
	if n <= 0 || len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}
