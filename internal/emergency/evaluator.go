// Package emergency scores side-effect reports against a fixed keyword table
// and renders the matching directive template.
//
// The result is a deterministic keyword heuristic, not a diagnosis.
package emergency

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Level 0 record fields, returned for anything that is not a side-effect question.
const (
	NotApplicableAction      = "일반 상담"
	NotApplicableDescription = "응급도 평가 대상 아님"
	NotApplicableReasoning   = "부작용 상담이 아닙니다"
)

// DefaultLevel is used when no keyword of any level matched.
const DefaultLevel = 2

// PresumedSideEffectReasoning explains a DefaultLevel result.
const PresumedSideEffectReasoning = "일반적인 부작용으로 추정"

// Evaluator assigns an emergency level to an analysis result.
// Safe for concurrent use; the rule table is never mutated after construction.
type Evaluator struct {
	rules   []SeverityRule
	byLevel map[int]SeverityRule
}

// NewEvaluator creates an Evaluator over the default rule table.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithRules(DefaultRules())
}

// NewEvaluatorWithRules creates an Evaluator over rules, iterated in the given order.
// The rules must include DefaultLevel.
func NewEvaluatorWithRules(rules []SeverityRule) *Evaluator {
	e := &Evaluator{
		rules:   make([]SeverityRule, len(rules)),
		byLevel: make(map[int]SeverityRule, len(rules)),
	}
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		r.Keywords = kw
		e.rules[i] = r
		e.byLevel[r.Level] = r
	}
	return e
}

// Rules returns a copy of the rule table in iteration order.
func (e *Evaluator) Rules() []SeverityRule {
	out := make([]SeverityRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate scores the analysis against every rule and returns the winning level.
// Non side-effect questions get level 0 without scoring.
func (e *Evaluator) Evaluate(analysis models.AnalysisResult) models.EmergencyRecord {
	if analysis.QueryType != models.QueryTypeSideEffect {
		return models.EmergencyRecord{
			Level:           0,
			Action:          NotApplicableAction,
			Description:     NotApplicableDescription,
			Reasoning:       NotApplicableReasoning,
			MatchedKeywords: []string{},
		}
	}

	text := searchText(analysis)

	// Every rule is scored; no early exit.
	scores := make([]int, len(e.rules))
	matched := make([][]string, len(e.rules))
	for i, rule := range e.rules {
		m := []string{}
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				m = append(m, kw)
			}
		}
		scores[i] = len(m)
		matched[i] = m
	}

	best, bestScore := -1, 0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}

	if bestScore == 0 {
		rule := e.byLevel[DefaultLevel]
		slog.Debug("emergency evaluated", "level", DefaultLevel, "scores", scores)
		return models.EmergencyRecord{
			Level:           DefaultLevel,
			Action:          rule.Action,
			Description:     rule.Description,
			Reasoning:       PresumedSideEffectReasoning,
			MatchedKeywords: []string{},
		}
	}

	rule := e.rules[best]
	slog.Debug("emergency evaluated", "level", rule.Level, "scores", scores)
	return models.EmergencyRecord{
		Level:           rule.Level,
		Action:          rule.Action,
		Description:     rule.Description,
		Reasoning:       fmt.Sprintf("Level %d 키워드 매칭: %v", rule.Level, matched[best]),
		MatchedKeywords: matched[best],
	}
}

// searchText joins symptoms and emergency keywords into one lowercased string.
func searchText(a models.AnalysisResult) string {
	return strings.ToLower(strings.Join(a.Symptoms, " ") + " " + strings.Join(a.EmergencyKeywords, " "))
}
