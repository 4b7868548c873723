// Package analysis turns extracted document text into a structured
// plain-English report: an LLM produces the narrative fields while a
// local pattern scanner contributes clause evidence and a heuristic
// risk score.
package analysis

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/interfaces"
	"github.com/explicare/explicare/internal/models"
)

// Service generates analysis reports. Generation never fails from the
// caller's perspective: any error degrades into a report that carries
// the failure in Meta["error"].
type Service struct {
	llmService    interfaces.LLMService
	scanner       *ClauseScanner
	maxInputChars int
	logger        arbor.ILogger
}

// NewService creates a report generator. maxInputChars caps how much
// document text is sent to the model.
func NewService(llmService interfaces.LLMService, scanner *ClauseScanner, maxInputChars int, logger arbor.ILogger) *Service {
	if maxInputChars <= 0 {
		maxInputChars = 20000
	}
	return &Service{
		llmService:    llmService,
		scanner:       scanner,
		maxInputChars: maxInputChars,
		logger:        logger,
	}
}

// Analyze produces a structured report for extracted document text.
// meta entries (filename, document type) are carried through into the
// report's Meta field.
func (s *Service) Analyze(ctx context.Context, text string, meta map[string]any) *models.AnalysisReport {
	start := time.Now()

	input := text
	if len(input) > s.maxInputChars {
		input = input[:s.maxInputChars]
	}

	response, err := s.llmService.Chat(ctx, []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildAnalysisPrompt(input)},
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Report generation failed")
		return s.degraded(err, meta)
	}

	report, err := parseReportJSON(response)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("response_length", len(response)).
			Msg("Report response was not parseable")
		return s.degraded(err, meta)
	}

	clauseHits := s.scanner.FindClauseHits(text)
	report.ClauseHits = clauseHits

	for k, v := range meta {
		report.Meta[k] = v
	}
	report.Meta["naive_risk_score"] = s.scanner.ScoreRisk(clauseHits)

	s.logger.Info().
		Int("input_chars", len(input)).
		Int("summary_points", len(report.Summary)).
		Int("risks", len(report.Risks)).
		Dur("duration", time.Since(start)).
		Msg("Generated analysis report")

	return report
}

func (s *Service) degraded(err error, meta map[string]any) *models.AnalysisReport {
	report := models.NewDegradedReport(err)
	for k, v := range meta {
		report.Meta[k] = v
	}
	report.Meta["error"] = err.Error()
	return report
}
