package analysis

import (
	"fmt"
)

// systemPrompt frames every analysis request. Wording deliberately
// steers the model away from definitive legal conclusions.
const systemPrompt = `You are a legal clarity assistant. Your job is to explain legal documents in plain, neutral language, flag potentially risky clauses, and suggest practical, non-legal-advice steps the user can take. Avoid definitive legal conclusions; use careful wording ("may", "could", "appears to"). Tailor explanations for a non-lawyer reader.`

// taskInstructions pins the exact JSON shape the report parser expects.
const taskInstructions = `Return a structured JSON object with these fields ONLY:
{
  "summary": ["5-10 bullet points explaining the agreement in plain English."],
  "key_terms": ["..."],
  "obligations": {
    "you": ["..."],
    "other_party": ["..."]
  },
  "costs_and_payments": ["interest rate, fees, penalties, schedule"],
  "risks": [
    {"title": "...", "why_it_matters": "...", "where_found": "quote or section", "mitigations": ["..."]}
  ],
  "red_flags": ["short list of potentially unfavorable items"],
  "questions_to_ask": ["..."],
  "negotiation_suggestions": ["..."],
  "decision_assist": {
    "pros": ["..."],
    "cons": ["..."],
    "overall_take": "one-paragraph risk-aware take"
  }
}
Use short, readable sentences. If information is missing, say so. Respond with JSON only, no surrounding prose.`

// buildAnalysisPrompt assembles the user message for a document
// analysis request.
func buildAnalysisPrompt(documentText string) string {
	return fmt.Sprintf("%s\n\nDocument:\n%s", taskInstructions, documentText)
}
