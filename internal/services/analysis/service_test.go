package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
)

// createTestLogger creates a logger for testing
func createTestLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// mockLLMService implements interfaces.LLMService for testing
type mockLLMService struct {
	response string
	err      error
}

func (m *mockLLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("not supported")
}

func (m *mockLLMService) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) HealthCheck(ctx context.Context) error { return nil }
func (m *mockLLMService) GetMode() interfaces.LLMMode { return interfaces.LLMModeCloud }
func (m *mockLLMService) ModelName() string { return "mock-model" }
func (m *mockLLMService) Close() error { return nil }

func newTestService(t *testing.T, llm interfaces.LLMService) *Service {
	t.Helper()
	scanner, err := NewClauseScanner()
	require.NoError(t, err)
	return NewService(llm, scanner, 20000, createTestLogger())
}

func TestAnalyze_AttachesClauseHitsAndRiskScore(t *testing.T) {
	llm := &mockLLMService{
		response: `{"summary": ["A loan with binding arbitration."], "decision_assist": {"pros": [], "cons": [], "overall_take": "ok"}}`,
	}
	svc := newTestService(t, llm)

	text := "All disputes are subject to binding arbitration. A balloon payment of $50,000 is due at maturity."
	report := svc.Analyze(context.Background(), text, map[string]any{"filename": "loan.pdf"})

	assert.Equal(t, []string{"A loan with binding arbitration."}, report.Summary)
	assert.NotEmpty(t, report.ClauseHits["Arbitration / Class Action Waiver"])
	assert.NotEmpty(t, report.ClauseHits["Balloon Payment"])
	assert.Equal(t, 22, report.Meta["naive_risk_score"])
	assert.Equal(t, "loan.pdf", report.Meta["filename"])
	_, hasError := report.Meta["error"]
	assert.False(t, hasError)
}

func TestAnalyze_DegradesOnLLMFailure(t *testing.T) {
	llm := &mockLLMService{err: fmt.Errorf("quota exceeded")}
	svc := newTestService(t, llm)

	report := svc.Analyze(context.Background(), "some document text", nil)

	require.Len(t, report.Summary, 1)
	assert.Contains(t, report.Summary[0], "Error processing document:")
	assert.Contains(t, report.DecisionAssist.OverallTake, "Error:")
	assert.Equal(t, "quota exceeded", report.Meta["error"])
	// Collections stay well-formed in the degraded report.
	assert.NotNil(t, report.Risks)
	assert.NotNil(t, report.Obligations["you"])
}

func TestAnalyze_DegradesOnUnparseableResponse(t *testing.T) {
	llm := &mockLLMService{response: "I cannot help with that."}
	svc := newTestService(t, llm)

	report := svc.Analyze(context.Background(), "some document text", nil)

	_, hasError := report.Meta["error"]
	assert.True(t, hasError)
}

func TestAnalyze_CapsInputLength(t *testing.T) {
	var seenLen int
	llm := &capturingLLM{
		response: `{"summary": ["ok"], "decision_assist": {"pros": [], "cons": [], "overall_take": ""}}`,
		onChat: func(messages []interfaces.Message) {
			seenLen = len(messages[len(messages)-1].Content)
		},
	}
	scanner, err := NewClauseScanner()
	require.NoError(t, err)
	svc := NewService(llm, scanner, 100, createTestLogger())

	long := make([]byte, 10_000)
	for i := range long {
		long[i] = 'a'
	}
	svc.Analyze(context.Background(), string(long), nil)

	// Prompt wraps the capped text, so it must stay well under the raw size.
	assert.Less(t, seenLen, 2000)
}

type capturingLLM struct {
	mockLLMService
	response string
	onChat   func([]interfaces.Message)
}

func (c *capturingLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	if c.onChat != nil {
		c.onChat(messages)
	}
	return c.response, nil
}
