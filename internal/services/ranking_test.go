package services

import (
	"testing"
	"time"

	"askhive/internal/models"

	"github.com/stretchr/testify/assert"
)

func question(title string, asked time.Time, answerTimes ...time.Time) models.Question {
	q := models.Question{Title: title, CreatedAt: asked}
	for _, at := range answerTimes {
		q.Answers = append(q.Answers, models.Answer{CreatedAt: at})
	}
	return q
}

func titles(qs []models.Question) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Title)
	}
	return out
}

func TestRankQuestions(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := base
	t2 := base.Add(1 * time.Hour)
	t3 := base.Add(2 * time.Hour)
	a1 := base.Add(3 * time.Hour)
	a2 := base.Add(4 * time.Hour)

	qOld := question("old", t1, a1)
	qMid := question("mid", t2, a2)
	qNew := question("new", t3) // no answers

	input := []models.Question{qOld, qMid, qNew}

	t.Run("Newest", func(t *testing.T) {
		got := RankQuestions(input, OrderNewest)
		assert.Equal(t, []string{"new", "mid", "old"}, titles(got))
	})

	t.Run("Unanswered", func(t *testing.T) {
		got := RankQuestions(input, OrderUnanswered)
		assert.Equal(t, []string{"new"}, titles(got))
	})

	t.Run("ActivePutsAnsweredFirst", func(t *testing.T) {
		// Answered questions sort by latest answer descending; the
		// answerless question goes last despite being asked last.
		got := RankQuestions(input, OrderActive)
		assert.Equal(t, []string{"mid", "old", "new"}, titles(got))
	})

	t.Run("ActiveUsesLatestAnswerPerQuestion", func(t *testing.T) {
		// old gets a second, later answer and overtakes mid.
		qOldBusy := question("old", t1, a1, a2.Add(time.Hour))
		got := RankQuestions([]models.Question{qOldBusy, qMid, qNew}, OrderActive)
		assert.Equal(t, []string{"old", "mid", "new"}, titles(got))
	})

	t.Run("MostViewed", func(t *testing.T) {
		viewed := make([]models.Question, 3)
		copy(viewed, input)
		viewed[0].ViewCount = 2 // old
		viewed[1].ViewCount = 5 // mid
		viewed[2].ViewCount = 2 // new
		got := RankQuestions(viewed, OrderMostViewed)
		// Equal view counts keep newest-first order.
		assert.Equal(t, []string{"mid", "new", "old"}, titles(got))
	})

	t.Run("InputNotMutated", func(t *testing.T) {
		before := titles(input)
		_ = RankQuestions(input, OrderActive)
		_ = RankQuestions(input, OrderNewest)
		assert.Equal(t, before, titles(input))
	})

	t.Run("UnknownOrderFallsBackToNewest", func(t *testing.T) {
		got := RankQuestions(input, Order("bogus"))
		assert.Equal(t, []string{"new", "mid", "old"}, titles(got))
	})
}

func TestRankQuestionsStableTies(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := question("a", at)
	b := question("b", at)
	c := question("c", at)

	got := RankQuestions([]models.Question{a, b, c}, OrderNewest)
	assert.Equal(t, []string{"a", "b", "c"}, titles(got))
}
