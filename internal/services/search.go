package services

import (
	"regexp"
	"strings"

	"askhive/internal/models"
)

var tagTokenRe = regexp.MustCompile(`\[([^\[\]]+)\]`)

// ParseSearch splits a free-text query into bracket-delimited tag tokens
// and plain keyword tokens. "[react][javascript] router navigate" gives
// tags {react, javascript} and keywords {router, navigate}.
func ParseSearch(query string) (tags []string, keywords []string) {
	for _, m := range tagTokenRe.FindAllStringSubmatch(query, -1) {
		tags = append(tags, m[1])
	}
	rest := tagTokenRe.ReplaceAllString(query, " ")
	// Fields hands back an empty non-nil slice for a blank remainder;
	// keep "no keywords" and "no tags" the same shape.
	if fields := strings.Fields(rest); len(fields) > 0 {
		keywords = fields
	}
	return tags, keywords
}

// FilterQuestions keeps questions matching any given tag name OR
// containing any keyword as a substring of title or text
// (case-sensitive). With no tags and no keywords everything passes.
func FilterQuestions(questions []models.Question, tags, keywords []string) []models.Question {
	if len(tags) == 0 && len(keywords) == 0 {
		return questions
	}

	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	var out []models.Question
	for _, q := range questions {
		if matchesTag(q, tagSet) || matchesKeyword(q, keywords) {
			out = append(out, q)
		}
	}
	return out
}

func matchesTag(q models.Question, tagSet map[string]bool) bool {
	for _, t := range q.Tags {
		if tagSet[t.Name] {
			return true
		}
	}
	return false
}

func matchesKeyword(q models.Question, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q.Title, kw) || strings.Contains(q.Text, kw) {
			return true
		}
	}
	return false
}
