package models

// EmergencyRecord is the severity assessment derived from an AnalysisResult.
// Level 0 is reserved for questions that are not about side effects.
type EmergencyRecord struct {
	Level           int      `json:"level"            yaml:"level"`
	Action          string   `json:"action"           yaml:"action"`
	Description     string   `json:"description"      yaml:"description"`
	Reasoning       string   `json:"reasoning"        yaml:"reasoning"`
	MatchedKeywords []string `json:"matched_keywords" yaml:"matched_keywords"`
}
