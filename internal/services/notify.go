package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"askhive/internal/db"
	"askhive/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// fanoutDeliveryLimit bounds how many notification inserts run at once.
const fanoutDeliveryLimit = 8

// fanoutSource carries the resolved recipients plus the typed source
// reference the created notifications should point at. At most one of
// the ref fields is set.
type fanoutSource struct {
	recipientIDs []uint
	questionID   *uint
	pollID       *uint
	articleID    *uint
}

// recipientResolver maps a source object id to the users that must be
// notified for one notification type.
type recipientResolver func(g *gorm.DB, sourceID uint) (*fanoutSource, error)

// resolvers is the closed dispatch table over notification types. init
// checks it is total, so adding a type to models.NotificationTypes
// without a resolver fails fast at startup instead of at fan-out time.
var resolvers = map[models.NotificationType]recipientResolver{
	models.NotificationTypeAnswer:        resolveAskerAndSubscribers,
	models.NotificationTypeComment:       resolveAsker,
	models.NotificationTypeUpvote:        resolveAsker,
	models.NotificationTypeAnswerComment: resolveAnswerAuthor,
	models.NotificationTypeNewQuestion:   resolveQuestionCommunity,
	models.NotificationTypeNewPoll:       resolvePollCommunity,
	models.NotificationTypePollClosed:    resolvePollParticipants,
	models.NotificationTypeNewArticle:    resolveArticleCommunity,
	models.NotificationTypeArticleUpdate: resolveArticleCommunity,
	models.NotificationTypeNewReward:     resolveSingleUser,
}

func init() {
	for _, t := range models.NotificationTypes {
		if resolvers[t] == nil {
			panic(fmt.Sprintf("no recipient resolver for notification type %q", t))
		}
	}
}

// Delivery is the per-recipient outcome of one fan-out.
type Delivery struct {
	Username   string `json:"username"`
	Suppressed bool   `json:"suppressed"` // recipient had the type muted
	Err        error  `json:"-"`
}

// FanoutResult reports who was resolved and how each delivery went.
type FanoutResult struct {
	Recipients []string   `json:"recipients"` // resolved usernames, sorted
	Deliveries []Delivery `json:"deliveries"`
}

// Notify resolves the recipients for one domain event and creates one
// notification record per recipient. Deliveries run concurrently; each
// recipient gets their own record even though the content is identical.
// Recipients who muted the type still get a record, but it is marked
// suppressed and never appears in their inbox.
//
// Resolution failure, an empty recipient set, or any delivery failure
// returns an error; partial deliveries are not rolled back.
func Notify(sourceID uint, ntype models.NotificationType, now time.Time) (*FanoutResult, error) {
	resolve := resolvers[ntype]
	if resolve == nil {
		return nil, invalidInput(fmt.Sprintf("unknown notification type %q", ntype))
	}

	src, err := resolve(db.DB, sourceID)
	if err != nil {
		return nil, err
	}
	if len(src.recipientIDs) == 0 {
		// An event that resolves to nobody means the trigger is
		// misconfigured; surface it instead of silently dropping.
		return nil, conflict(fmt.Sprintf("notification %q for source %d resolved no recipients", ntype, sourceID))
	}

	var users []models.User
	if err := db.DB.Where("id IN ?", src.recipientIDs).Find(&users).Error; err != nil {
		return nil, persistence("load recipients", err)
	}
	if len(users) != len(src.recipientIDs) {
		return nil, notFound("recipient user set for source", sourceID)
	}

	muted, err := mutedUsers(src.recipientIDs, ntype)
	if err != nil {
		return nil, err
	}

	result := &FanoutResult{
		Recipients: make([]string, 0, len(users)),
		Deliveries: make([]Delivery, len(users)),
	}
	for _, u := range users {
		result.Recipients = append(result.Recipients, u.Username)
	}
	sort.Strings(result.Recipients)

	var grp errgroup.Group
	grp.SetLimit(fanoutDeliveryLimit)
	for i, u := range users {
		grp.Go(func() error {
			n := models.Notification{
				UserID:     u.ID,
				Type:       ntype,
				QuestionID: src.questionID,
				PollID:     src.pollID,
				ArticleID:  src.articleID,
				Suppressed: muted[u.ID],
				CreatedAt:  now,
			}
			if err := db.DB.Create(&n).Error; err != nil {
				err = persistence("create notification", err)
				result.Deliveries[i] = Delivery{Username: u.Username, Err: err}
				return err
			}
			result.Deliveries[i] = Delivery{Username: u.Username, Suppressed: n.Suppressed}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return result, aggregate("notification fan-out", err)
	}
	return result, nil
}

// NotifyAsync runs the fan-out in a goroutine so a mutation handler's
// response never waits on recipient writes. Failures are logged, not
// surfaced; callers that need the outcome use Notify directly.
func NotifyAsync(sourceID uint, ntype models.NotificationType, now time.Time) {
	go func() {
		if _, err := Notify(sourceID, ntype, now); err != nil {
			log.Printf("Notification fan-out %q for source %d failed: %v", ntype, sourceID, err)
		}
	}()
}

// mutedUsers returns the subset of ids that blocked the given type.
func mutedUsers(ids []uint, ntype models.NotificationType) (map[uint]bool, error) {
	var mutes []models.NotificationMute
	if err := db.DB.Where("user_id IN ? AND type = ?", ids, ntype).Find(&mutes).Error; err != nil {
		return nil, persistence("load notification mutes", err)
	}
	muted := make(map[uint]bool, len(mutes))
	for _, m := range mutes {
		muted[m.UserID] = true
	}
	return muted, nil
}

// MarkRead flips one inbox notification to read. The recipient scope in
// the filter keeps users from touching each other's inboxes.
func MarkRead(userID, notificationID uint) error {
	res := db.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND suppressed = ?", notificationID, userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return persistence("mark notification read", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("notification", notificationID)
	}
	return nil
}

// MarkAllRead marks every unread inbox notification for the user.
func MarkAllRead(userID uint) error {
	err := db.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND suppressed = ?", userID, false, false).
		Update("is_read", true).Error
	if err != nil {
		return persistence("mark all notifications read", err)
	}
	return nil
}

// Inbox returns the user's visible notifications, newest first.
// Suppressed records never surface here.
func Inbox(userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.DB.Where("user_id = ? AND suppressed = ?", userID, false).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, persistence("load inbox", err)
	}
	return notifications, nil
}

// ---- recipient resolvers ----

func resolveAsker(g *gorm.DB, questionID uint) (*fanoutSource, error) {
	var q models.Question
	if err := g.First(&q, questionID).Error; err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	return &fanoutSource{recipientIDs: []uint{q.UserID}, questionID: &q.ID}, nil
}

func resolveAskerAndSubscribers(g *gorm.DB, questionID uint) (*fanoutSource, error) {
	var q models.Question
	if err := g.First(&q, questionID).Error; err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	var subs []models.QuestionSubscription
	if err := g.Where("question_id = ?", questionID).Find(&subs).Error; err != nil {
		return nil, persistence("load subscribers", err)
	}
	ids := []uint{q.UserID}
	seen := map[uint]bool{q.UserID: true}
	for _, s := range subs {
		if !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	return &fanoutSource{recipientIDs: ids, questionID: &q.ID}, nil
}

func resolveAnswerAuthor(g *gorm.DB, answerID uint) (*fanoutSource, error) {
	var a models.Answer
	if err := g.First(&a, answerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("answer", answerID)
		}
		return nil, persistence("load answer", err)
	}
	return &fanoutSource{recipientIDs: []uint{a.UserID}, questionID: &a.QuestionID}, nil
}

func resolveQuestionCommunity(g *gorm.DB, questionID uint) (*fanoutSource, error) {
	var q models.Question
	if err := g.First(&q, questionID).Error; err != nil {
		return nil, questionLookupErr(questionID, err)
	}
	ids, err := communityMemberIDs(g, q.CommunityID)
	if err != nil {
		return nil, err
	}
	return &fanoutSource{recipientIDs: ids, questionID: &q.ID}, nil
}

func resolvePollCommunity(g *gorm.DB, pollID uint) (*fanoutSource, error) {
	var p models.Poll
	if err := g.First(&p, pollID).Error; err != nil {
		return nil, pollLookupErr(pollID, err)
	}
	ids, err := communityMemberIDs(g, p.CommunityID)
	if err != nil {
		return nil, err
	}
	return &fanoutSource{recipientIDs: ids, pollID: &p.ID}, nil
}

func resolvePollParticipants(g *gorm.DB, pollID uint) (*fanoutSource, error) {
	var p models.Poll
	if err := g.First(&p, pollID).Error; err != nil {
		return nil, pollLookupErr(pollID, err)
	}
	var votes []models.PollVote
	if err := g.Where("poll_id = ?", pollID).Find(&votes).Error; err != nil {
		return nil, persistence("load poll votes", err)
	}
	ids := []uint{p.UserID}
	seen := map[uint]bool{p.UserID: true}
	for _, v := range votes {
		if !seen[v.UserID] {
			seen[v.UserID] = true
			ids = append(ids, v.UserID)
		}
	}
	return &fanoutSource{recipientIDs: ids, pollID: &p.ID}, nil
}

func resolveArticleCommunity(g *gorm.DB, articleID uint) (*fanoutSource, error) {
	var a models.Article
	if err := g.First(&a, articleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("article", articleID)
		}
		return nil, persistence("load article", err)
	}
	ids, err := communityMemberIDs(g, a.CommunityID)
	if err != nil {
		return nil, err
	}
	return &fanoutSource{recipientIDs: ids, articleID: &a.ID}, nil
}

func resolveSingleUser(g *gorm.DB, userID uint) (*fanoutSource, error) {
	var u models.User
	if err := g.First(&u, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFound("user", userID)
		}
		return nil, persistence("load user", err)
	}
	return &fanoutSource{recipientIDs: []uint{u.ID}}, nil
}

func communityMemberIDs(g *gorm.DB, communityID uint) ([]uint, error) {
	var members []models.CommunityMember
	if err := g.Where("community_id = ?", communityID).Find(&members).Error; err != nil {
		return nil, persistence("load community members", err)
	}
	ids := make([]uint, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

func questionLookupErr(id uint, err error) error {
	if err == gorm.ErrRecordNotFound {
		return notFound("question", id)
	}
	return persistence("load question", err)
}

func pollLookupErr(id uint, err error) error {
	if err == gorm.ErrRecordNotFound {
		return notFound("poll", id)
	}
	return persistence("load poll", err)
}
