package intent

import (
	"strings"

	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

var typeSuffix = map[models.QueryType]string{
	models.QueryTypeSideEffect: "부작용",
	models.QueryTypeUsage:      "복용법 사용법",
	models.QueryTypeEfficacy:   "효능 효과",
}

// EnhanceQuery appends detected drugs, symptoms and a type-specific keyword to
// the original question to improve retrieval. Deterministic.
func EnhanceQuery(original string, analysis models.AnalysisResult) string {
	parts := []string{original}
	parts = append(parts, analysis.DetectedDrugs...)
	parts = append(parts, analysis.Symptoms...)
	if s, ok := typeSuffix[analysis.QueryType]; ok {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
