package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/docquery/core"
)

const answerSystemPrompt = `You answer questions using only the document excerpts provided by the user.

Instructions:
- Answer based solely on the provided context
- If the context doesn't contain enough information, say so clearly
- Cite which document section supports your answer
- Be concise but thorough`

// buildAnswerPrompt assembles the user message for answer generation:
// the ranked passages followed by the question. Passages arrive already
// tenant-scoped and ordered by relevance.
func buildAnswerPrompt(question string, passages []core.Passage) string {
	var sb strings.Builder

	sb.WriteString("Context:\n")
	for i, passage := range passages {
		fmt.Fprintf(&sb, "[Document %d, %s, chunk %d]: %s\n\n",
			i+1, passage.Filename, passage.ChunkIndex, passage.Text)
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)

	return sb.String()
}
