package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kiranshivaraju/yaktalk/internal/consultation"
	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

func sampleResult() consultation.Result {
	return consultation.Result{
		Success:  true,
		Question: "타이레놀 먹고 속이 쓰려요",
		Analysis: &models.AnalysisResult{
			QueryType:     models.QueryTypeSideEffect,
			DetectedDrugs: []string{"타이레놀"},
			Symptoms:      []string{"속쓰림"},
			Confidence:    0.85,
		},
		Emergency: &models.EmergencyRecord{
			Level:       2,
			Description: "일반적인 부작용, 경과 관찰 필요",
		},
		FinalResponse: "경과 관찰\n속쓰림이 있을 수 있어요.",
		SourceDocuments: []models.Document{{
			Content:  "타이레놀정500밀리그램의 부작용: 속쓰림",
			Metadata: models.DocumentMetadata{DrugName: "타이레놀정500밀리그램", Field: "부작용", ItemCode: "200300001"},
		}},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"text", "json", "yaml"} {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("xml"))
}

func TestWriteConsultation_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConsultation(&buf, formatText, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "속쓰림이 있을 수 있어요.")
	assert.Contains(t, out, "질문 유형: side_effect (신뢰도 0.85)")
	assert.Contains(t, out, "응급도: Level 2 - 일반적인 부작용, 경과 관찰 필요")
	assert.Contains(t, out, "출처 1: 타이레놀정500밀리그램 [부작용] (200300001)")
}

func TestWriteConsultation_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConsultation(&buf, formatJSON, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "side_effect", got["analysis"].(map[string]any)["query_type"])
	assert.NotContains(t, got, "Err")
}

func TestWriteConsultation_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConsultation(&buf, formatYAML, sampleResult()))

	var got struct {
		Success   bool `yaml:"success"`
		Emergency struct {
			Level int `yaml:"level"`
		} `yaml:"emergency"`
		SourceDocuments []struct {
			Metadata struct {
				ItemCode string `yaml:"item_code"`
			} `yaml:"metadata"`
		} `yaml:"source_documents"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, 2, got.Emergency.Level)
	require.Len(t, got.SourceDocuments, 1)
	assert.Equal(t, "200300001", got.SourceDocuments[0].Metadata.ItemCode)
}

func TestWriteSearch_Text(t *testing.T) {
	var buf bytes.Buffer
	res := consultation.SearchResult{
		Query:         "타이레놀",
		EnhancedQuery: "타이레놀 타이레놀 효능 효과",
		Analysis:      models.AnalysisResult{QueryType: models.QueryTypeEfficacy},
		Documents:     sampleResult().SourceDocuments,
	}
	require.NoError(t, writeSearch(&buf, formatText, res))

	out := buf.String()
	assert.Contains(t, out, "검색어: 타이레놀 타이레놀 효능 효과")
	assert.Contains(t, out, "[1] 타이레놀정500밀리그램 (200300001)")
}

func TestWriteSearch_NoDocuments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSearch(&buf, formatText, consultation.SearchResult{Query: "x"}))
	assert.Contains(t, buf.String(), "관련 문서를 찾지 못했습니다.")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.Equal(t, "yaktalk dev\n", buf.String())
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	rootCmd.SetArgs([]string{"ask"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, Execute())
}

func TestAskCommand_RejectsUnknownFormat(t *testing.T) {
	rootCmd.SetArgs([]string{"ask", "--format", "xml", "타이레놀"})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		askFormat = formatText
	})

	err := Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}
