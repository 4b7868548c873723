package llm

import (
	"testing"

	"github.com/explicare/explicare/internal/interfaces"
)

func TestConvertMessagesToGemini(t *testing.T) {
	tests := []struct {
		name        string
		messages    []interfaces.Message
		wantCount   int
		wantSystem  string
		expectError bool
	}{
		{
			name: "system message extracted",
			messages: []interfaces.Message{
				{Role: "system", Content: "You are a legal assistant."},
				{Role: "user", Content: "What does clause 4 mean?"},
			},
			wantCount:  1,
			wantSystem: "You are a legal assistant.",
		},
		{
			name: "history preserved in order",
			messages: []interfaces.Message{
				{Role: "user", Content: "first"},
				{Role: "assistant", Content: "second"},
				{Role: "user", Content: "third"},
			},
			wantCount: 3,
		},
		{
			name:        "no user message rejected",
			messages:    []interfaces.Message{{Role: "system", Content: "only system"}},
			expectError: true,
		},
		{
			name:        "empty rejected",
			messages:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents, system, err := convertMessagesToGemini(tt.messages)
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(contents) != tt.wantCount {
				t.Errorf("content count = %d, want %d", len(contents), tt.wantCount)
			}
			if system != tt.wantSystem {
				t.Errorf("system = %q, want %q", system, tt.wantSystem)
			}
		})
	}
}

func TestConvertMessagesToClaude(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "You are a legal assistant."},
		{Role: "user", Content: "Summarize my lease."},
		{Role: "assistant", Content: "Here is a summary."},
		{Role: "user", Content: "What about the deposit?"},
	}

	claudeMessages, system, err := convertMessagesToClaude(messages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if system != "You are a legal assistant." {
		t.Errorf("system = %q", system)
	}
	if len(claudeMessages) != 3 {
		t.Errorf("message count = %d, want 3 (system excluded)", len(claudeMessages))
	}
}

func TestConvertMessagesToClaude_RequiresUserMessage(t *testing.T) {
	if _, _, err := convertMessagesToClaude([]interfaces.Message{
		{Role: "assistant", Content: "hello"},
	}); err == nil {
		t.Error("expected error for history with no user message")
	}
}
