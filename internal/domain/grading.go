package domain

import "strings"

// AnswerMatches grades a submitted choice against the stored answer.
// Comparison ignores case and leading/trailing whitespace.
func AnswerMatches(correct, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(correct), strings.TrimSpace(submitted))
}
