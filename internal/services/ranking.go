package services

import (
	"sort"
	"time"

	"askhive/internal/models"
)

// Order selects how a question listing is sorted.
type Order string

const (
	OrderNewest     Order = "newest"
	OrderActive     Order = "active"
	OrderUnanswered Order = "unanswered"
	OrderMostViewed Order = "mostviewed"
)

// RankQuestions returns a new slice ordered per the requested view. The
// input is never mutated. Unknown orders fall back to newest.
func RankQuestions(questions []models.Question, order Order) []models.Question {
	qs := make([]models.Question, len(questions))
	copy(qs, questions)

	// Every view starts from newest-first so later stable sorts keep
	// ask time as the tiebreak.
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].CreatedAt.After(qs[j].CreatedAt)
	})

	switch order {
	case OrderUnanswered:
		out := qs[:0]
		for _, q := range qs {
			if len(q.Answers) == 0 {
				out = append(out, q)
			}
		}
		return out
	case OrderActive:
		sort.SliceStable(qs, func(i, j int) bool {
			ti, iok := latestAnswerTime(qs[i])
			tj, jok := latestAnswerTime(qs[j])
			if iok && jok {
				return ti.After(tj)
			}
			// Questions with answers always precede those without.
			return iok && !jok
		})
		return qs
	case OrderMostViewed:
		sort.SliceStable(qs, func(i, j int) bool {
			return qs[i].ViewCount > qs[j].ViewCount
		})
		return qs
	default:
		return qs
	}
}

func latestAnswerTime(q models.Question) (time.Time, bool) {
	if len(q.Answers) == 0 {
		return time.Time{}, false
	}
	latest := q.Answers[0].CreatedAt
	for _, a := range q.Answers[1:] {
		if a.CreatedAt.After(latest) {
			latest = a.CreatedAt
		}
	}
	return latest, true
}
