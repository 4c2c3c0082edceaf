package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// QuestionKeyLen is the number of hex characters kept from the question digest.
const QuestionKeyLen = 12

var reWhitespace = regexp.MustCompile(`\s+`)

// NormalizeQuestion lowercases q, collapses whitespace runs to one space and trims.
func NormalizeQuestion(q string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(strings.ToLower(q), " "))
}

// QuestionKey derives the fixed-length cache key of a question. Questions that
// differ only in case or whitespace share a key.
func QuestionKey(q string) string {
	sum := md5.Sum([]byte(NormalizeQuestion(q)))
	return hex.EncodeToString(sum[:])[:QuestionKeyLen]
}

func RateLimitKey(client string) string {
	return fmt.Sprintf("ratelimit:%s", client)
}
