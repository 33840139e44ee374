package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"arena/internal/logger"
	"arena/internal/models"
	"arena/internal/utils"
)

// disabledPassword can never match a bcrypt hash, so seeded accounts cannot log in
const disabledPassword = "!"

// DemoTopics are the topics of the demo conversation
var DemoTopics = []string{
	models.IntroductionTopic,
	"Future of Text",
	"How will Arena disrupt text podcast and social media",
}

type demoMessage struct {
	author   string
	topic    string
	content  string
	loves    int
	comments int
	views    int
}

var demoMessages = []demoMessage{
	{"gaurab", DemoTopics[0], "Hi Sam, excited to start this conversation. Let's begin with our Introduction.", 24, 12, 1234},
	{"samc", DemoTopics[0], "Hi Gaurab, great to be here. Looking forward to sharing our backgrounds and ideas.", 18, 8, 856},
	{"gaurab", DemoTopics[1], "Let's discuss how text is evolving in the digital age. What role do you see AI playing in this transformation?", 15, 7, 654},
	{"gaurab", DemoTopics[2], "Arena represents a new paradigm in digital communication. How do you see it changing the landscape of content creation?", 20, 10, 789},
}

// SeedDemo creates the demo hosts and their conversation once
func SeedDemo(db *gorm.DB) (*models.Conversation, error) {
	var existing models.Conversation
	err := db.Where("title = ?", "Gaurab & Sam").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var conv models.Conversation
	err = db.Transaction(func(tx *gorm.DB) error {
		hosts := map[string]*models.User{
			"gaurab": {Name: "Gaurab", Username: "gaurab", Email: "gaurab@arena.demo", PasswordHash: disabledPassword, Role: models.RoleUser},
			"samc":   {Name: "Sam", Username: "samc", Email: "samc@arena.demo", PasswordHash: disabledPassword, Role: models.RoleUser},
		}
		for _, u := range hosts {
			if err := tx.Where(models.User{Username: u.Username}).FirstOrCreate(u).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
		}

		conv = models.Conversation{
			Title:      "Gaurab & Sam",
			Topics:     DemoTopics,
			WordTarget: 500,
			Days:       3,
		}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for _, u := range []*models.User{hosts["gaurab"], hosts["samc"]} {
			p := models.Participant{ConversationID: conv.ID, UserID: u.ID, IsHost: true}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}

		start := time.Now().Add(-time.Hour)
		for i, m := range demoMessages {
			msg := models.Message{
				ConversationID: conv.ID,
				Topic:          m.topic,
				AuthorID:       hosts[m.author].ID,
				Content:        m.content,
				WordCount:      utils.CountWords(m.content),
				Loves:          m.loves,
				Comments:       m.comments,
				Views:          m.views,
				CreatedAt:      start.Add(time.Duration(i) * time.Minute),
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed demo conversation: %w", err)
	}

	logger.Infof("Seeded demo conversation %d", conv.ID)
	return &conv, nil
}
