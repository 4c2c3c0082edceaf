package models

// QueryType is the classified intent of a user question.
type QueryType string

const (
	QueryTypeSideEffect QueryType = "side_effect"
	QueryTypeUsage      QueryType = "usage"
	QueryTypeEfficacy   QueryType = "efficacy"
	QueryTypeOther      QueryType = "other"
)

// Valid reports whether t is one of the four known query types.
func (t QueryType) Valid() bool {
	switch t {
	case QueryTypeSideEffect, QueryTypeUsage, QueryTypeEfficacy, QueryTypeOther:
		return true
	}
	return false
}

// AnalysisResult is the intent analysis of a single question.
// It is produced once per question and treated as immutable afterwards.
type AnalysisResult struct {
	QueryType         QueryType `json:"query_type"        yaml:"query_type"`
	DetectedDrugs     []string  `json:"detected_drugs"    yaml:"detected_drugs"`
	Symptoms          []string  `json:"symptoms"          yaml:"symptoms"`
	EmergencyKeywords []string  `json:"emergency_keywords" yaml:"emergency_keywords"`
	Confidence        float64   `json:"confidence"        yaml:"confidence"`
	Reasoning         string    `json:"reasoning"         yaml:"reasoning"`
}
