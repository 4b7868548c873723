package analysis

import (
	"strings"
	"testing"
)

func TestNewClauseScanner(t *testing.T) {
	s, err := NewClauseScanner()
	if err != nil {
		t.Fatalf("NewClauseScanner: %v", err)
	}
	if len(s.patterns) != 12 {
		t.Errorf("pattern count = %d, want 12", len(s.patterns))
	}
}

func TestFindClauseHits(t *testing.T) {
	s, err := NewClauseScanner()
	if err != nil {
		t.Fatalf("NewClauseScanner: %v", err)
	}

	text := "Any dispute arising under this agreement shall be resolved by binding arbitration. " +
		"The borrower agrees to a personal guarantee of all obligations. " +
		"This agreement is governed by the laws of the State of Delaware."

	hits := s.FindClauseHits(text)

	// Every clause name is present, hit or not.
	if len(hits) != 12 {
		t.Errorf("clause names in result = %d, want 12", len(hits))
	}
	if len(hits["Arbitration / Class Action Waiver"]) == 0 {
		t.Error("arbitration clause not detected")
	}
	if len(hits["Personal Guarantee"]) == 0 {
		t.Error("personal guarantee clause not detected")
	}
	if len(hits["Governing Law / Venue"]) == 0 {
		t.Error("governing law clause not detected")
	}
	if len(hits["Balloon Payment"]) != 0 {
		t.Error("balloon payment detected in text that has none")
	}
}

func TestFindClauseHits_SnippetContext(t *testing.T) {
	s, _ := NewClauseScanner()

	pad := strings.Repeat("x", 300)
	text := pad + " balloon payment " + pad

	hits := s.FindClauseHits(text)
	examples := hits["Balloon Payment"]
	if len(examples) != 1 {
		t.Fatalf("got %d examples, want 1", len(examples))
	}
	// Snippet carries surrounding context but stays bounded.
	snippet := examples[0]
	if !strings.Contains(snippet, "balloon payment") {
		t.Error("snippet does not contain the matched text")
	}
	if len(snippet) > len("balloon payment")+2*snippetRadius+2 {
		t.Errorf("snippet length %d exceeds expected bound", len(snippet))
	}
	if strings.Contains(snippet, "\n") {
		t.Error("snippet contains newline")
	}
}

func TestScoreRisk(t *testing.T) {
	s, _ := NewClauseScanner()

	tests := []struct {
		name string
		hits map[string][]string
		want int
	}{
		{
			name: "no hits scores zero",
			hits: map[string][]string{"Balloon Payment": {}},
			want: 0,
		},
		{
			name: "weights sum",
			hits: map[string][]string{
				"Confession of Judgment": {"snippet"},
				"Balloon Payment":        {"snippet"},
			},
			want: 25,
		},
		{
			name: "unknown clause uses default weight",
			hits: map[string][]string{"Unknown Clause": {"snippet"}},
			want: 3,
		},
		{
			name: "clamped to 100",
			hits: map[string][]string{
				"Arbitration / Class Action Waiver":        {"x"},
				"Jury Trial Waiver":                        {"x"},
				"Confession of Judgment":                   {"x"},
				"Prepayment Penalty":                       {"x"},
				"Balloon Payment":                          {"x"},
				"Variable / Adjustable Rate":               {"x"},
				"Cross-Default / Cross-Collateralization":  {"x"},
				"Late Fees / Default Interest":             {"x"},
				"Auto-Renewal / Evergreen":                 {"x"},
				"Liquidated Damages":                       {"x"},
				"Personal Guarantee":                       {"x"},
				"Governing Law / Venue":                    {"x"},
				"Extra One":                                {"x"},
				"Extra Two":                                {"x"},
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ScoreRisk(tt.hits); got != tt.want {
				t.Errorf("ScoreRisk = %d, want %d", got, tt.want)
			}
		})
	}
}
