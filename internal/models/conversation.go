package models

import (
	"time"
)

// IntroductionTopic opens every conversation and does not count toward the word target
const IntroductionTopic = "Introduction"

// Conversation is a hosted, topic-ordered discussion
type Conversation struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	InviteID     *string       `gorm:"size:36;index" json:"invite_id,omitempty"`
	Title        string        `gorm:"size:255" json:"title"`
	Topics       []string      `gorm:"serializer:json;type:text" json:"topics"`
	WordTarget   int           `gorm:"default:0" json:"word_target"`
	Days         int           `gorm:"default:0" json:"days"`
	Minutes      int           `gorm:"default:0" json:"minutes"`
	Participants []Participant `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Participant links a user to a conversation
type Participant struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;uniqueIndex:idx_participant_conversation_user" json:"conversation_id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_participant_conversation_user" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsHost         bool      `gorm:"default:false" json:"is_host"`
	JoinedAt       time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (Participant) TableName() string {
	return "participants"
}

// Message is a post under one topic of a conversation
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"not null;index:idx_message_conversation_topic" json:"conversation_id"`
	Topic          string    `gorm:"size:255;not null;index:idx_message_conversation_topic" json:"topic"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	Author         *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Images         []string  `gorm:"serializer:json;type:text" json:"images"`
	WordCount      int       `gorm:"default:0" json:"word_count"`
	ReplyToID      *uint     `gorm:"index" json:"reply_to_id,omitempty"`
	Loves          int       `gorm:"default:0" json:"loves"`
	Comments       int       `gorm:"default:0" json:"comments"`
	Views          int       `gorm:"default:0" json:"views"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageLove is one user's love reaction on a message
type MessageLove struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;uniqueIndex:idx_love_message_user" json:"message_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_love_message_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (MessageLove) TableName() string {
	return "message_loves"
}

// Comment is a comment on a message. Replies are one level deep.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;index" json:"message_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Pinned    bool      `gorm:"default:false" json:"pinned"`
	Replies   []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
