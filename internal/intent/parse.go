package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// ErrInvalidReply is returned when the classifier reply is not a JSON object.
var ErrInvalidReply = errors.New("invalid classifier reply")

type classifierReply struct {
	QueryType         string   `json:"query_type"`
	DetectedDrugs     []string `json:"detected_drugs"`
	Symptoms          []string `json:"symptoms"`
	EmergencyKeywords []string `json:"emergency_keywords"`
	Confidence        float64  `json:"confidence"`
	Reasoning         string   `json:"reasoning"`
}

// parseReply validates a raw classifier reply and converts it to an AnalysisResult.
// Unknown query types become "other"; confidence is clamped to [0, 1].
func parseReply(raw string) (models.AnalysisResult, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return models.AnalysisResult{}, fmt.Errorf("%w: no JSON object found", ErrInvalidReply)
	}

	var r classifierReply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	qt := models.QueryType(strings.TrimSpace(strings.ToLower(r.QueryType)))
	if !qt.Valid() {
		qt = models.QueryTypeOther
	}

	conf := r.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	return models.AnalysisResult{
		QueryType:         qt,
		DetectedDrugs:     cleanList(r.DetectedDrugs),
		Symptoms:          cleanList(r.Symptoms),
		EmergencyKeywords: dedupe(cleanList(r.EmergencyKeywords)),
		Confidence:        conf,
		Reasoning:         r.Reasoning,
	}, nil
}

// extractJSONObject returns the outermost {...} span of s, which tolerates
// markdown fences and chatter around the object.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
