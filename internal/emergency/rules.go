package emergency

// SeverityRule maps one severity level to the keywords that indicate it.
type SeverityRule struct {
	Level       int
	Keywords    []string
	Action      string
	Description string
}

// DefaultRules returns the built-in severity table, most severe first.
// Evaluation iterates in this order, so on equal scores the more severe
// level wins.
func DefaultRules() []SeverityRule {
	return []SeverityRule{
		{
			Level: 5,
			Keywords: []string{
				"호흡곤란", "숨쉬기어려움", "숨이막힘", "질식",
				"의식잃음", "기절", "쓰러짐", "의식불명",
				"경련", "발작", "간질",
				"심한가슴통증", "가슴을쥐어짬", "심장마비",
				"토혈", "혈변", "대량출혈", "심한출혈",
				"119", "응급실", "응급차",
			},
			Action:      "즉시 119 신고 또는 응급실 방문",
			Description: "생명을 위협할 수 있는 응급상황",
		},
		{
			Level: 4,
			Keywords: []string{
				"심한통증", "극심한통증", "참을수없는통증",
				"고열", "심한발열", "40도", "고온",
				"심한어지러움", "극심한어지러움",
				"심한구토", "계속구토", "멈추지않는구토",
				"심한설사", "혈성설사",
				"시야흐림", "시야장애", "눈이보이지않음",
				"심한두통", "극심한두통", "머리가깨질것같음",
			},
			Action:      "당일 내 병원 응급실 방문 필요",
			Description: "빠른 의료진 진료가 필요한 상황",
		},
		{
			Level: 3,
			Keywords: []string{
				"지속적인통증", "계속되는통증", "악화되는",
				"발열", "열이남", "몸이뜨거움",
				"심한속쓰림", "극심한속쓰림",
				"지속적구토", "반복적구토",
				"발진악화", "부종심함", "붓기심함",
				"호흡이상", "숨이가쁨",
			},
			Action:      "1-2일 내 병원 방문 권장",
			Description: "지속되거나 악화되는 증상",
		},
		{
			Level: 2,
			Keywords: []string{
				"속쓰림", "위장장애", "소화불량", "복통",
				"두통", "어지러움", "메스꺼움", "구토",
				"설사", "변비", "복부팽만",
				"피부발진", "가려움", "두드러기",
				"피로감", "무력감", "식욕부진",
			},
			Action:      "2-3일 경과 관찰 후 지속되면 병원 방문",
			Description: "일반적인 부작용, 경과 관찰 필요",
		},
		{
			Level: 1,
			Keywords: []string{
				"약간의", "살짝", "조금", "미미한",
				"가벼운두통", "가벼운어지러움",
				"약간의속쓰림", "가벼운메스꺼움",
			},
			Action:      "복용 중단 후 자가 관찰",
			Description: "경미한 증상, 대부분 자연 회복",
		},
	}
}
