package db

import (
	"log"
	"os"

	"askhive/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=askhive port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCommunities()
	seedTags()
	seedChallenges()
}

// Migrate runs AutoMigrate for every model. Split out from Init so tests
// can run the same migrations against their own database.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.User{},
		&models.UserReward{},
		&models.NotificationMute{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Tag{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.QuestionVote{},
		&models.QuestionView{},
		&models.QuestionSubscription{},
		&models.Notification{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.Article{},
		&models.Challenge{},
		&models.UserChallenge{},
		&models.ChallengeAction{},
	)
}

func seedCommunities() {
	var count int64
	DB.Model(&models.Community{}).Count(&count)
	if count > 0 {
		return
	}

	communities := []models.Community{
		{Name: "general", Description: "Anything that fits nowhere else"},
		{Name: "golang", Description: "The Go programming language"},
		{Name: "webdev", Description: "Frontend and backend web development"},
		{Name: "databases", Description: "Storage, queries and data modeling"},
	}

	for _, c := range communities {
		if err := DB.Create(&c).Error; err != nil {
			log.Printf("Failed to create community %s: %v", c.Name, err)
		}
	}
	log.Println("Initial communities created")
}

func seedTags() {
	var count int64
	DB.Model(&models.Tag{}).Count(&count)
	if count > 0 {
		return
	}

	tags := []models.Tag{
		{Name: "go", Description: "Go language questions"},
		{Name: "javascript", Description: "JavaScript questions"},
		{Name: "react", Description: "React framework"},
		{Name: "postgres", Description: "PostgreSQL"},
		{Name: "docker", Description: "Containers and images"},
	}

	for _, tag := range tags {
		if err := DB.Create(&tag).Error; err != nil {
			log.Printf("Failed to create tag %s: %v", tag.Name, err)
		}
	}
	log.Println("Initial tags created")
}

func seedChallenges() {
	var count int64
	DB.Model(&models.Challenge{}).Count(&count)
	if count > 0 {
		return
	}

	day := 24
	challenges := []models.Challenge{
		{Type: models.ChallengeActionUpvote, Name: "Curator", ActionAmount: 10, Reward: "Curator"},
		{Type: models.ChallengeActionAnswer, Name: "Rapid Responder", ActionAmount: 5, Reward: "Rapid Responder", HoursToComplete: &day},
		{Type: models.ChallengeActionQuestion, Name: "Curious Mind", ActionAmount: 3, Reward: "Curious Mind"},
		{Type: models.ChallengeActionVotePoll, Name: "Pollster", ActionAmount: 5, Reward: "Pollster"},
	}

	for _, ch := range challenges {
		if err := DB.Create(&ch).Error; err != nil {
			log.Printf("Failed to create challenge %s: %v", ch.Name, err)
		}
	}
	log.Println("Initial challenges created")
}
