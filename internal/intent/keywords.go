package intent

import "strings"

// localEmergencyKeywords are scanned directly in the raw question, independent
// of what the classifier extracted.
var localEmergencyKeywords = []string{
	"호흡곤란", "숨쉬기어려움", "의식잃음", "기절", "쓰러짐",
	"경련", "발작", "심한복통", "심한두통", "가슴아픔",
	"토혈", "혈변", "대량출혈", "119", "응급실",
	"심각", "위험", "생명", "즉시", "급하게",
}

// DetectEmergencyKeywords returns the local emergency keywords contained in text,
// in list order.
func DetectEmergencyKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := []string{}
	for _, kw := range localEmergencyKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// dedupe returns items without repeats, keeping first occurrences.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
