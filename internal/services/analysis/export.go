package analysis

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/explicare/explicare/internal/models"
)

// Exporter renders analysis reports as downloadable PDF documents.
type Exporter struct {
	logger arbor.ILogger
}

// NewExporter creates a report PDF exporter.
func NewExporter(logger arbor.ILogger) *Exporter {
	return &Exporter{logger: logger}
}

// ExportPDF renders a report to a PDF byte slice. The layout mirrors
// the report structure: one section per field, bullets for lists.
func (e *Exporter) ExportPDF(report *models.AnalysisReport, filename string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 7, "Document Analysis Report", "", "L", false)
	if filename != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, filename, "", "L", false)
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, "For informational purposes only - not legal advice.", "", "L", false)
	pdf.Ln(4)

	if score, ok := report.Meta["naive_risk_score"]; ok {
		e.section(pdf, "Naive Risk Score (0-100)")
		e.paragraph(pdf, fmt.Sprint(score))
	}

	e.section(pdf, "Plain-English Summary")
	e.bullets(pdf, report.Summary)

	e.section(pdf, "Key Terms")
	e.bullets(pdf, report.KeyTerms)

	e.section(pdf, "Obligations - You")
	e.bullets(pdf, report.Obligations["you"])
	e.section(pdf, "Obligations - Other Party")
	e.bullets(pdf, report.Obligations["other_party"])

	e.section(pdf, "Costs & Payments")
	e.bullets(pdf, report.CostsAndPayments)

	e.section(pdf, "Potential Risks")
	if len(report.Risks) == 0 {
		e.paragraph(pdf, "No risks listed.")
	}
	for _, risk := range report.Risks {
		pdf.SetFont("Arial", "B", 9)
		pdf.MultiCell(0, 5, risk.Title, "", "L", false)
		pdf.SetFont("Arial", "", 9)
		if risk.WhyItMatters != "" {
			pdf.MultiCell(0, 5, risk.WhyItMatters, "", "L", false)
		}
		if risk.WhereFound != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, "Where found: "+risk.WhereFound, "", "L", false)
			pdf.SetFont("Arial", "", 9)
		}
		e.bullets(pdf, risk.Mitigations)
		pdf.Ln(2)
	}

	e.section(pdf, "Red Flags")
	e.bullets(pdf, report.RedFlags)

	e.section(pdf, "Questions to Ask")
	e.bullets(pdf, report.QuestionsToAsk)

	e.section(pdf, "Negotiation Suggestions")
	e.bullets(pdf, report.NegotiationSuggestions)

	e.section(pdf, "Decision Assist")
	pdf.SetFont("Arial", "B", 9)
	pdf.MultiCell(0, 5, "Pros", "", "L", false)
	pdf.SetFont("Arial", "", 9)
	e.bullets(pdf, report.DecisionAssist.Pros)
	pdf.SetFont("Arial", "B", 9)
	pdf.MultiCell(0, 5, "Cons", "", "L", false)
	pdf.SetFont("Arial", "", 9)
	e.bullets(pdf, report.DecisionAssist.Cons)
	if report.DecisionAssist.OverallTake != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.MultiCell(0, 5, "Overall Take", "", "L", false)
		pdf.SetFont("Arial", "", 9)
		e.paragraph(pdf, report.DecisionAssist.OverallTake)
	}

	hasClauseHits := false
	for _, examples := range report.ClauseHits {
		if len(examples) > 0 {
			hasClauseHits = true
			break
		}
	}
	if hasClauseHits {
		e.section(pdf, "Detected Clauses")
		names := make([]string, 0, len(report.ClauseHits))
		for name := range report.ClauseHits {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			examples := report.ClauseHits[name]
			if len(examples) == 0 {
				continue
			}
			pdf.SetFont("Arial", "B", 9)
			pdf.MultiCell(0, 5, fmt.Sprintf("%s (%d)", name, len(examples)), "", "L", false)
			pdf.SetFont("Arial", "I", 8)
			// Keep at most a few snippets per clause to bound the export.
			limit := len(examples)
			if limit > 5 {
				limit = 5
			}
			for _, ex := range examples[:limit] {
				pdf.MultiCell(0, 4, "> "+ex, "", "L", false)
			}
			pdf.SetFont("Arial", "", 9)
			pdf.Ln(1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		e.logger.Error().Err(err).Msg("Failed to generate report PDF")
		return nil, fmt.Errorf("failed to generate report PDF: %w", err)
	}

	e.logger.Debug().Int("pdf_size", buf.Len()).Msg("Report PDF generated")
	return buf.Bytes(), nil
}

func (e *Exporter) section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.MultiCell(0, 6, title, "", "L", false)
	pdf.SetFont("Arial", "", 9)
}

func (e *Exporter) paragraph(pdf *fpdf.Fpdf, text string) {
	pdf.MultiCell(0, 5, text, "", "L", false)
}

func (e *Exporter) bullets(pdf *fpdf.Fpdf, items []string) {
	if len(items) == 0 {
		e.paragraph(pdf, "None detected.")
		return
	}
	for _, item := range items {
		pdf.MultiCell(0, 5, "- "+item, "", "L", false)
	}
}
