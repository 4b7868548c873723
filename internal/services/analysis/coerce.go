package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/explicare/explicare/internal/models"
)

// parseReportJSON decodes a model response into a well-formed report.
// The raw text is tried as JSON first; when the model wraps the object
// in prose, the substring between the first '{' and last '}' is tried
// before giving up.
func parseReportJSON(raw string) (*models.AnalysisReport, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("model did not return JSON")
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &result); err != nil {
			return nil, fmt.Errorf("model did not return valid JSON: %w", err)
		}
	}
	return coerceReportFields(result), nil
}

// coerceReportFields maps a loosely-shaped model response onto the
// report schema. Models drift from the requested shape in recurring
// ways (strings where lists belong, {"term": ...} wrappers, obligations
// as a flat list); each known drift is normalized rather than rejected.
func coerceReportFields(result map[string]any) *models.AnalysisReport {
	report := models.NewEmptyReport()

	report.Summary = toStringSlice(result["summary"])
	report.KeyTerms = coerceKeyTerms(result["key_terms"])
	report.Obligations = coerceObligations(result["obligations"])
	report.CostsAndPayments = coerceCosts(result["costs_and_payments"])
	report.Risks = coerceRisks(result["risks"])
	report.RedFlags = coerceWrapped(result["red_flags"], "flag")
	report.QuestionsToAsk = toStringSlice(result["questions_to_ask"])
	report.NegotiationSuggestions = toStringSlice(result["negotiation_suggestions"])
	report.DecisionAssist = coerceDecisionAssist(result["decision_assist"])

	return report
}

// asString renders any scalar or composite value as a display string.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// toStringSlice accepts a list, a bare string, or nil.
func toStringSlice(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, asString(item))
		}
		return out
	case string:
		return []string{t}
	case nil:
		return []string{}
	default:
		return []string{asString(t)}
	}
}

// coerceWrapped handles lists whose items may be {key: "..."} objects.
func coerceWrapped(v any, key string) []string {
	list, ok := v.([]any)
	if !ok {
		return toStringSlice(v)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if inner, ok := m[key]; ok {
				out = append(out, asString(inner))
				continue
			}
		}
		out = append(out, asString(item))
	}
	return out
}

func coerceKeyTerms(v any) []string {
	switch t := v.(type) {
	case map[string]any:
		// Dict of term -> definition collapses to the values.
		out := make([]string, 0, len(t))
		for _, val := range t {
			out = append(out, asString(val))
		}
		return out
	default:
		return coerceWrapped(v, "term")
	}
}

func coerceObligations(v any) map[string][]string {
	switch t := v.(type) {
	case map[string]any:
		out := map[string][]string{"you": {}, "other_party": {}}
		for k, val := range t {
			out[k] = toStringSlice(val)
		}
		return out
	case []any:
		// Flat list: attribute everything to the reader.
		return map[string][]string{"you": toStringSlice(t), "other_party": {}}
	default:
		return map[string][]string{"you": {}, "other_party": {}}
	}
}

func coerceCosts(v any) []string {
	switch t := v.(type) {
	case map[string]any:
		out := make([]string, 0, len(t))
		for k, val := range t {
			out = append(out, fmt.Sprintf("%s: %s", k, asString(val)))
		}
		return out
	default:
		return coerceWrapped(v, "total_estimated_cost")
	}
}

func coerceRisks(v any) []models.RiskItem {
	list, ok := v.([]any)
	if !ok {
		return []models.RiskItem{}
	}
	out := make([]models.RiskItem, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, models.RiskItem{Title: asString(item), Mitigations: []string{}})
			continue
		}
		risk := models.RiskItem{
			WhyItMatters: asString(m["why_it_matters"]),
			WhereFound:   asString(m["where_found"]),
			Mitigations:  toStringSliceOrEmpty(m["mitigations"]),
		}
		// Some responses use {"risk": "..."} instead of {"title": "..."}.
		if title, ok := m["risk"]; ok {
			risk.Title = asString(title)
		} else if title, ok := m["title"]; ok {
			risk.Title = asString(title)
		} else {
			risk.Title = asString(m)
		}
		out = append(out, risk)
	}
	return out
}

// toStringSliceOrEmpty is toStringSlice except a missing value yields
// an empty slice rather than a one-element slice of "".
func toStringSliceOrEmpty(v any) []string {
	if v == nil {
		return []string{}
	}
	return toStringSlice(v)
}

func coerceDecisionAssist(v any) models.DecisionAssist {
	switch t := v.(type) {
	case string:
		return models.DecisionAssist{Pros: []string{}, Cons: []string{}, OverallTake: t}
	case []any:
		return models.DecisionAssist{Pros: toStringSlice(t), Cons: []string{}}
	case map[string]any:
		return models.DecisionAssist{
			Pros:        toStringSliceOrEmpty(t["pros"]),
			Cons:        toStringSliceOrEmpty(t["cons"]),
			OverallTake: asString(t["overall_take"]),
		}
	default:
		return models.DecisionAssist{Pros: []string{}, Cons: []string{}}
	}
}
