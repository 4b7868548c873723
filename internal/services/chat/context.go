package chat

import (
	"fmt"
	"strings"

	"github.com/explicare/explicare/internal/models"
)

const defaultContextBudget = 8000

// AssembleContext concatenates ranked chunks into a labelled context
// block within a character budget. Each chunk becomes a "[Doc i]"
// labelled piece; the first piece that would overflow the budget is
// dropped whole along with everything after it, so chunks are never
// truncated mid-text.
func AssembleContext(chunks []models.ScoredChunk, budget int) (string, int) {
	if budget <= 0 {
		budget = defaultContextBudget
	}

	var pieces []string
	total := 0
	for i, c := range chunks {
		piece := fmt.Sprintf("[Doc %d]\n%s\n", i+1, strings.TrimSpace(c.Chunk.Text))
		if total+len(piece) > budget {
			break
		}
		pieces = append(pieces, piece)
		total += len(piece)
	}

	return strings.Join(pieces, "\n"), len(pieces)
}
