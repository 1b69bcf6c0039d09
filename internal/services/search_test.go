package services

import (
	"testing"

	"askhive/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSearch(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		tags     []string
		keywords []string
	}{
		{
			name:     "TagsAndKeywords",
			query:    "[react][javascript] router navigate",
			tags:     []string{"react", "javascript"},
			keywords: []string{"router", "navigate"},
		},
		{
			name:     "OnlyKeywords",
			query:    "generics type params",
			keywords: []string{"generics", "type", "params"},
		},
		{
			name:  "OnlyTags",
			query: "[go] [postgres]",
			tags:  []string{"go", "postgres"},
		},
		{
			name:     "TagInTheMiddle",
			query:    "slow [postgres] queries",
			tags:     []string{"postgres"},
			keywords: []string{"slow", "queries"},
		},
		{
			name:  "Empty",
			query: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, keywords := ParseSearch(tt.query)
			assert.Equal(t, tt.tags, tags)
			assert.Equal(t, tt.keywords, keywords)
		})
	}

	t.Run("NoTokensMeansNil", func(t *testing.T) {
		// Tag-only and blank queries yield nil keyword slices, not
		// empty ones, same as tags.
		tags, keywords := ParseSearch("[go] [postgres]")
		assert.NotNil(t, tags)
		assert.Nil(t, keywords)

		tags, keywords = ParseSearch("   ")
		assert.Nil(t, tags)
		assert.Nil(t, keywords)
	})
}

func taggedQuestion(title, text string, tagNames ...string) models.Question {
	q := models.Question{Title: title, Text: text}
	for _, name := range tagNames {
		q.Tags = append(q.Tags, models.Tag{Name: name})
	}
	return q
}

func TestFilterQuestions(t *testing.T) {
	goQ := taggedQuestion("Generics in Go", "How do type params work", "go")
	jsQ := taggedQuestion("Router setup", "react-router navigation", "react", "javascript")
	dbQ := taggedQuestion("Slow queries", "postgres index tuning", "postgres")
	all := []models.Question{goQ, jsQ, dbQ}

	t.Run("NoFiltersReturnsAll", func(t *testing.T) {
		got := FilterQuestions(all, nil, nil)
		assert.Len(t, got, 3)
	})

	t.Run("TagOnly", func(t *testing.T) {
		got := FilterQuestions(all, []string{"react"}, nil)
		assert.Equal(t, []string{"Router setup"}, titles(got))
	})

	t.Run("KeywordOnly", func(t *testing.T) {
		got := FilterQuestions(all, nil, []string{"queries"})
		assert.Equal(t, []string{"Slow queries"}, titles(got))
	})

	t.Run("KeywordMatchesTextToo", func(t *testing.T) {
		got := FilterQuestions(all, nil, []string{"index"})
		assert.Equal(t, []string{"Slow queries"}, titles(got))
	})

	t.Run("KeywordIsCaseSensitive", func(t *testing.T) {
		got := FilterQuestions(all, nil, []string{"generics"})
		assert.Empty(t, got)
	})

	t.Run("TagOrKeywordIsUnion", func(t *testing.T) {
		got := FilterQuestions(all, []string{"go"}, []string{"postgres"})
		assert.Equal(t, []string{"Generics in Go", "Slow queries"}, titles(got))
	})

	t.Run("NoMatches", func(t *testing.T) {
		got := FilterQuestions(all, []string{"rust"}, []string{"zig"})
		assert.Empty(t, got)
	})
}
