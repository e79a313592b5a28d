package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/docquery/core"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via a function field.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default deterministic behavior.
	GenerateAnswerFunc func(ctx context.Context, question string, passages []core.Passage) (string, error)

	callCount int
}

// NewMockAnswerGenerator creates a mock answer generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer returns a canned answer echoing the top passage, or invokes
// the injected function.
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, question string, passages []core.Passage) (string, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, passages)
	}

	if len(passages) == 0 {
		return fmt.Sprintf("No relevant content found for %q.", question), nil
	}
	return fmt.Sprintf("Answer to %q based on %d passages: %s",
		question, len(passages), passages[0].Text), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnswerGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
