package services

import (
	"strings"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleQuestionVote applies one up or down vote with toggle semantics:
// voting the same direction twice removes the vote, voting the other
// direction moves it. value must be 1 or -1. The whole flip runs in one
// transaction against the single (question_id, user_id) vote row, so a
// user can never sit in both camps between two statements. askerID is
// the question author, for callers that notify on votes by others.
func ToggleQuestionVote(questionID, userID uint, value int, now time.Time) (up, down int64, askerID uint, err error) {
	if value != 1 && value != -1 {
		return 0, 0, 0, invalidInput("vote value must be 1 or -1")
	}

	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		return 0, 0, 0, questionLookupErr(questionID, err)
	}
	askerID = question.UserID

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.QuestionVote
		res := tx.Where("question_id = ? AND user_id = ?", questionID, userID).First(&existing)
		switch {
		case res.Error == gorm.ErrRecordNotFound:
			vote := models.QuestionVote{
				QuestionID: questionID,
				UserID:     userID,
				Value:      value,
				CreatedAt:  now,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return persistence("create question vote", err)
			}
		case res.Error != nil:
			return persistence("load question vote", res.Error)
		case existing.Value == value:
			// Same direction again: toggle off.
			if err := tx.Delete(&existing).Error; err != nil {
				return persistence("remove question vote", err)
			}
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return persistence("flip question vote", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, 0, err
	}

	if err := db.DB.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = 1", questionID).Count(&up).Error; err != nil {
		return 0, 0, 0, persistence("count upvotes", err)
	}
	if err := db.DB.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = -1", questionID).Count(&down).Error; err != nil {
		return 0, 0, 0, persistence("count downvotes", err)
	}
	return up, down, askerID, nil
}

// CreateQuestion stores a new question with its tags resolved
// find-or-create by name.
func CreateQuestion(userID, communityID uint, title, text string, tagNames []string, now time.Time) (*models.Question, error) {
	if strings.TrimSpace(title) == "" {
		return nil, invalidInput("question title is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput("question text is required")
	}

	tags := make([]models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := FindOrCreateTag(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	question := models.Question{
		UserID:      userID,
		CommunityID: communityID,
		Title:       title,
		Text:        text,
		Tags:        tags,
		CreatedAt:   now,
	}
	if err := db.DB.Create(&question).Error; err != nil {
		return nil, persistence("create question", err)
	}
	return &question, nil
}

// FindOrCreateTag resolves a tag by its unique name, creating it when
// missing. Safe to call twice with the same name.
func FindOrCreateTag(name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("tag name is required")
	}
	var tag models.Tag
	if err := db.DB.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
		return nil, persistence("find or create tag", err)
	}
	return &tag, nil
}

// AddAnswer appends an answer to a question.
func AddAnswer(questionID, userID uint, text string, now time.Time) (*models.Answer, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput("answer text is required")
	}
	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	answer := models.Answer{
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
		CreatedAt:  now,
	}
	if err := db.DB.Create(&answer).Error; err != nil {
		return nil, persistence("create answer", err)
	}
	return &answer, nil
}

// AddQuestionComment attaches a comment to a question.
func AddQuestionComment(questionID, userID uint, text string, now time.Time) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput("comment text is required")
	}
	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	comment := models.Comment{
		QuestionID: &question.ID,
		UserID:     userID,
		Text:       text,
		CreatedAt:  now,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, persistence("create comment", err)
	}
	return &comment, nil
}

// AddAnswerComment attaches a comment to an answer.
func AddAnswerComment(answerID, userID uint, text string, now time.Time) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalidInput("comment text is required")
	}
	var answer models.Answer
	if err := db.DB.First(&answer, answerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("answer", answerID)
		}
		return nil, persistence("load answer", err)
	}
	comment := models.Comment{
		AnswerID:  &answer.ID,
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, persistence("create comment", err)
	}
	return &comment, nil
}

// Subscribe adds the user to a question's subscriber set. Idempotent.
func Subscribe(questionID, userID uint) error {
	var question models.Question
	if err := db.DB.First(&question, questionID).Error; err != nil {
		return questionLookupErr(questionID, err)
	}
	sub := models.QuestionSubscription{QuestionID: questionID, UserID: userID}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&sub).Error
	if err != nil {
		return persistence("subscribe to question", err)
	}
	return nil
}

// Unsubscribe removes the user from a question's subscriber set.
func Unsubscribe(questionID, userID uint) error {
	err := db.DB.Where("question_id = ? AND user_id = ?", questionID, userID).
		Delete(&models.QuestionSubscription{}).Error
	if err != nil {
		return persistence("unsubscribe from question", err)
	}
	return nil
}

// RecordView adds the user to the question's viewed-by set. Set
// semantics: a repeat view changes nothing.
func RecordView(questionID, userID uint) error {
	view := models.QuestionView{QuestionID: questionID, UserID: userID}
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&view).Error
	if err != nil {
		return persistence("record question view", err)
	}
	return nil
}

// LoadQuestions returns all questions with the associations the ranking
// and filter views need, plus per-question counters.
func LoadQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := db.DB.Preload("Tags").Preload("Answers").Find(&questions).Error
	if err != nil {
		return nil, persistence("load questions", err)
	}
	for i := range questions {
		if err := fillQuestionCounts(&questions[i]); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

func fillQuestionCounts(q *models.Question) error {
	err := db.DB.Model(&models.QuestionView{}).
		Where("question_id = ?", q.ID).Count(&q.ViewCount).Error
	if err != nil {
		return persistence("count question views", err)
	}
	err = db.DB.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = 1", q.ID).Count(&q.UpvoteCount).Error
	if err != nil {
		return persistence("count upvotes", err)
	}
	err = db.DB.Model(&models.QuestionVote{}).
		Where("question_id = ? AND value = -1", q.ID).Count(&q.DownvoteCount).Error
	if err != nil {
		return persistence("count downvotes", err)
	}
	return nil
}

// GetQuestion loads one question with answers (newest first), tags,
// comments and counters populated.
func GetQuestion(questionID uint) (*models.Question, error) {
	var question models.Question
	err := db.DB.Preload("Tags").
		Preload("Answers", func(g *gorm.DB) *gorm.DB {
			return g.Order("created_at DESC, id DESC")
		}).
		First(&question, questionID).Error
	if err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	if err := fillQuestionCounts(&question); err != nil {
		return nil, err
	}
	return &question, nil
}
