package intent

// Instruction is the fixed classification instruction sent with every question.
const Instruction = `사용자의 의료 관련 질문을 분석하여 JSON 형태로만 응답해줘. 다른 설명은 붙이지 마.
다음 형식으로 분석해:
{
    "query_type": "side_effect|usage|efficacy|other",
    "detected_drugs": ["약물명1", "약물명2"],
    "symptoms": ["증상1", "증상2"],
    "emergency_keywords": ["응급키워드1"],
    "confidence": 0.85,
    "reasoning": "분류 이유"
}
query_type 분류 기준:
- side_effect: 부작용, 이상반응, "먹고 아파요", "복용 후 증상" 등
- usage: 복용법, 사용법, "어떻게 먹어야", "몇 번", "언제" 등
- efficacy: 효능, 효과, "어떤 약", "추천", "좋은 약", "무슨 약", "약 먹어야" 등
- other: 위에 해당하지 않는 경우
symptoms 항목은 띄어쓰기 없이 적어줘 (예: "호흡곤란", "지속적인두통").`
