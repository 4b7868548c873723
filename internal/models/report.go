package models

// RiskItem describes one potentially risky clause found in a document.
type RiskItem struct {
	Title        string   `json:"title"`
	WhyItMatters string   `json:"why_it_matters"`
	WhereFound   string   `json:"where_found,omitempty"`
	Mitigations  []string `json:"mitigations"`
}

// DecisionAssist carries the model's pro/con framing for the document.
type DecisionAssist struct {
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	OverallTake string   `json:"overall_take"`
}

// AnalysisReport is the structured analysis produced once per document.
// Every field is always present and well-formed: generation failures degrade
// into a report with Meta["error"] set and empty collections, never an error
// surfaced to the caller.
type AnalysisReport struct {
	Summary                []string            `json:"summary"`
	KeyTerms               []string            `json:"key_terms"`
	Obligations            map[string][]string `json:"obligations"`
	CostsAndPayments       []string            `json:"costs_and_payments"`
	Risks                  []RiskItem          `json:"risks"`
	RedFlags               []string            `json:"red_flags"`
	QuestionsToAsk         []string            `json:"questions_to_ask"`
	NegotiationSuggestions []string            `json:"negotiation_suggestions"`
	DecisionAssist         DecisionAssist      `json:"decision_assist"`
	ClauseHits             map[string][]string `json:"clause_hits"` // Clause name -> evidence snippets
	Meta                   map[string]any      `json:"meta"`
}

// NewEmptyReport returns a report with all collections initialized, so
// callers and JSON consumers never see null fields.
func NewEmptyReport() *AnalysisReport {
	return &AnalysisReport{
		Summary:                []string{},
		KeyTerms:               []string{},
		Obligations:            map[string][]string{"you": {}, "other_party": {}},
		CostsAndPayments:       []string{},
		Risks:                  []RiskItem{},
		RedFlags:               []string{},
		QuestionsToAsk:         []string{},
		NegotiationSuggestions: []string{},
		DecisionAssist:         DecisionAssist{Pros: []string{}, Cons: []string{}},
		ClauseHits:             map[string][]string{},
		Meta:                   map[string]any{},
	}
}

// NewDegradedReport returns a well-formed report carrying the failure as data.
func NewDegradedReport(err error) *AnalysisReport {
	r := NewEmptyReport()
	r.Summary = []string{"Error processing document: " + err.Error()}
	r.DecisionAssist.OverallTake = "Error: " + err.Error()
	r.Meta["error"] = err.Error()
	return r
}
