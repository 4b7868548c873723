package analysis

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed clauses.yaml
var clausesYAML []byte

// snippetRadius is how much surrounding text each clause hit carries.
const snippetRadius = 120

// defaultClauseWeight applies to matched patterns without an explicit weight.
const defaultClauseWeight = 3

type clausePattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Weight  int    `yaml:"weight"`

	re *regexp.Regexp
}

type clauseFile struct {
	Clauses []clausePattern `yaml:"clauses"`
}

// ClauseScanner finds known risky clause patterns in document text and
// scores them heuristically. The score is a pattern-detection heuristic,
// not a legal assessment.
type ClauseScanner struct {
	patterns []clausePattern
	weights  map[string]int
}

// NewClauseScanner compiles the embedded clause pattern set.
func NewClauseScanner() (*ClauseScanner, error) {
	var file clauseFile
	if err := yaml.Unmarshal(clausesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse clause patterns: %w", err)
	}
	if len(file.Clauses) == 0 {
		return nil, fmt.Errorf("clause pattern set is empty")
	}

	weights := make(map[string]int, len(file.Clauses))
	for i := range file.Clauses {
		p := &file.Clauses[i]
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid clause pattern %q: %w", p.Name, err)
		}
		p.re = re
		weights[p.Name] = p.Weight
	}

	return &ClauseScanner{patterns: file.Clauses, weights: weights}, nil
}

// FindClauseHits scans text for every clause pattern and returns, per
// clause name, the surrounding snippets of each match. Every clause
// name appears in the result even with zero hits.
func (s *ClauseScanner) FindClauseHits(text string) map[string][]string {
	hits := make(map[string][]string, len(s.patterns))
	for _, p := range s.patterns {
		var examples []string
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start := loc[0] - snippetRadius
			if start < 0 {
				start = 0
			}
			end := loc[1] + snippetRadius
			if end > len(text) {
				end = len(text)
			}
			snippet := strings.TrimSpace(text[start:end])
			snippet = strings.ReplaceAll(snippet, "\n", " ")
			examples = append(examples, snippet)
		}
		hits[p.Name] = examples
	}
	return hits
}

// ScoreRisk sums the weights of clauses with at least one hit, clamped
// to 0-100. Unknown clause names contribute the default weight.
func (s *ClauseScanner) ScoreRisk(clauseHits map[string][]string) int {
	score := 0
	for name, examples := range clauseHits {
		if len(examples) == 0 {
			continue
		}
		if w, ok := s.weights[name]; ok {
			score += w
		} else {
			score += defaultClauseWeight
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
