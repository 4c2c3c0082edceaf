package rag

import (
	"strings"

	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Placeholders filled by BuildPrompt.
const (
	ContextPlaceholder  = "{context}"
	QuestionPlaceholder = "{question}"
)

const sideEffectPrompt = `너는 친절한 약물 상담 챗봇이야. 아래 참고 정보를 바탕으로 사용자가 겪는 부작용에 대해 답변해줘.

답변 구조:
1. 증상 설명: 해당 약물과 증상의 관련성을 설명해
2. 대처 방법: 집에서 할 수 있는 일반적인 관리 방법을 알려줘
3. 주의 사항: 복용 중단이나 전문가 상담이 필요한 경우를 안내해

제약 조건:
- 응급실 방문, 119 신고 같은 응급 지시는 하지 마. 응급도 판단은 별도로 이루어져
- 참고 정보에 없는 내용은 일반적인 조언임을 밝혀

참고정보:
{context}

사용자 질문: "{question}"

답변:`

const usagePrompt = `너는 친절한 약물 상담 챗봇이야. 아래 참고 정보를 바탕으로 약의 복용법을 답변해줘.

답변 구조:
1. 복용 방법: 용량, 횟수, 복용 시점을 설명해
2. 실천 팁: 식사와의 관계나 놓쳤을 때의 대처를 알려줘
3. 주의 사항: 최대 용량, 함께 먹으면 안 되는 약, 약사 상담이 필요한 경우를 안내해

제약 조건:
- 참고 정보에 있는 용법을 우선하고, 없는 내용은 일반적인 조언임을 밝혀

참고정보:
{context}

사용자 질문: "{question}"

답변:`

const efficacyPrompt = `너는 친절한 약물 상담 챗봇이야. 아래 참고 정보를 바탕으로 약의 효능과 효과를 답변해줘.

답변 구조:
1. 효능 설명: 어떤 증상에 효과가 있는지 설명해
2. 선택 가이드: 증상에 맞는 약을 고를 때 고려할 점을 알려줘
3. 주의 사항: 효과가 없거나 증상이 계속될 때 의사나 약사와 상담하도록 안내해

제약 조건:
- 특정 제품을 단정적으로 처방하지 마
- 참고 정보에 없는 내용은 일반적인 조언임을 밝혀

참고정보:
{context}

사용자 질문: "{question}"

답변:`

const generalPrompt = `너는 친절하고 상세한 의료 상담 챗봇이야. 아래 참고 정보를 바탕으로 사용자의 질문에 답변해줘.

답변 구조:
1. 설명: 질문에 대한 핵심 내용을 설명해
2. 실천 안내: 사용자가 참고할 수 있는 실용적인 정보를 알려줘
3. 주의 사항: 전문가 상담이 필요한 경우를 안내해

제약 조건:
- 참고 정보에 없는 내용이라면 아는 범위에서 일반적인 조언을 제공해

참고정보:
{context}

사용자 질문: "{question}"

답변:`

// PromptTemplate returns the answer template for a query type.
// Unknown types use the general template.
func PromptTemplate(t models.QueryType) string {
	switch t {
	case models.QueryTypeSideEffect:
		return sideEffectPrompt
	case models.QueryTypeUsage:
		return usagePrompt
	case models.QueryTypeEfficacy:
		return efficacyPrompt
	default:
		return generalPrompt
	}
}

// BuildPrompt inlines the retrieved passages and the question into the
// template selected by t.
func BuildPrompt(t models.QueryType, question string, docs []models.Document) string {
	passages := make([]string, 0, len(docs))
	for _, d := range docs {
		passages = append(passages, d.Content)
	}
	r := strings.NewReplacer(
		ContextPlaceholder, strings.Join(passages, "\n"),
		QuestionPlaceholder, question,
	)
	return r.Replace(PromptTemplate(t))
}
