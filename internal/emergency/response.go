package emergency

import (
	"strconv"
	"strings"

	"github.com/kiranshivaraju/yaktalk/pkg/models"
)

// Placeholders substituted by Render.
const (
	PlaceholderBaseAnswer  = "{base_answer}"
	PlaceholderLevel       = "{level}"
	PlaceholderDescription = "{description}"
	PlaceholderAction      = "{action}"
)

const criticalTemplate = `응급 상황 감지
{base_answer}
응급도: Level {level} - {description}
{action}

- 119 신고 또는 가장 가까운 응급실 방문
- 약물 복용 즉시 중단
- 증상 변화 주의 깊게 관찰

주의: 이는 의료진의 진단을 대체할 수 없습니다.`

const urgentTemplate = `주의 필요
{base_answer}
응급도: Level {level} - {description}
{action}

- 약물 복용 즉시 중단
- 당일 내 병원 응급실 또는 응급진료 방문
- 증상 악화 시 즉시 119 신고

주의: 이는 의료진의 진단을 대체할 수 없습니다. 증상이 악화되면 즉시 응급실을 방문하세요.`

const visitTemplate = `병원 방문 권장
{base_answer}
응급도: Level {level} - {description}
{action}

- 약물 복용 중단 고려
- 1-2일 내 병원 방문
- 증상 지속/악화 시 더 빨리 방문

주의: 이는 의료진의 진단을 대체할 수 없습니다. 증상이 심해지면 더 빨리 의료진과 상담하세요.`

const observeTemplate = `경과 관찰
{base_answer}
응급도: Level {level} - {description}
{action}

- 약물 복용 일시 중단
- 충분한 수분 섭취
- 2-3일 경과 관찰
- 증상 지속 시 병원 방문

주의: 이는 의료진의 진단을 대체할 수 없습니다. (참고) 대부분 시간이 지나면 호전됩니다.`

const generalTemplate = `일반 상담
{base_answer}
응급도: Level {level} - {description}
{action}

- 증상 경과 관찰
- 필요시 의료진 상담

(참고) 일반적인 의료 상담입니다.`

// ResponseTemplate returns the directive template for the record's level band.
// It is a pure function of the level.
func ResponseTemplate(record models.EmergencyRecord) string {
	switch {
	case record.Level >= 5:
		return criticalTemplate
	case record.Level >= 4:
		return urgentTemplate
	case record.Level >= 3:
		return visitTemplate
	case record.Level >= 2:
		return observeTemplate
	default:
		return generalTemplate
	}
}

// Render fills the four placeholders of tmpl. Placeholder-like text inside
// baseAnswer is left untouched.
func Render(tmpl, baseAnswer string, record models.EmergencyRecord) string {
	r := strings.NewReplacer(
		PlaceholderBaseAnswer, baseAnswer,
		PlaceholderLevel, strconv.Itoa(record.Level),
		PlaceholderDescription, record.Description,
		PlaceholderAction, record.Action,
	)
	return r.Replace(tmpl)
}

// FinalResponse renders the record's template around baseAnswer.
func FinalResponse(baseAnswer string, record models.EmergencyRecord) string {
	return Render(ResponseTemplate(record), baseAnswer, record)
}
