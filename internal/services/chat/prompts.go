package chat

import (
	"fmt"
	"strings"

	"github.com/explicare/explicare/internal/models"
)

// chatSystemPrompt scopes the assistant to legal-document questions.
const chatSystemPrompt = `You are a legal assistant AI specialized in simplifying complex legal documents. Your role is to help users understand rental agreements, loan contracts, terms of service, and other legal documents by providing clear summaries, explaining complex clauses, and answering questions in simple, practical language.

IMPORTANT: You must ONLY answer questions related to legal documents and their contents. If a question is not about legal documents or legal matters, politely decline to answer and explain that you are a specialized legal assistant.`

// noRelevantInfoMessage is returned verbatim when retrieval produces no
// context above the similarity floor.
const noRelevantInfoMessage = "No relevant information found in your documents."

// degradedAnswerMessage replaces the answer when generation fails.
const degradedAnswerMessage = "I apologize, but I encountered an error while processing your question. Please try again."

// buildChatPrompt assembles the user message carrying history, retrieved
// context, and the question to answer.
func buildChatPrompt(history []models.ConversationTurn, context, question string) string {
	var hist strings.Builder
	for _, turn := range history {
		hist.WriteString(strings.ToUpper(turn.Role))
		hist.WriteString(": ")
		hist.WriteString(turn.Content)
		hist.WriteString("\n")
	}
	histText := hist.String()
	if histText == "" {
		histText = "None"
	}

	return fmt.Sprintf("HISTORY:\n%s\n\nCONTEXT:\n%s\n\nQUESTION: %s\n\nAnswer concisely and only to the last question.", histText, context, question)
}
