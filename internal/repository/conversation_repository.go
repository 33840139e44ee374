package repository

import (
	"context"

	"gorm.io/gorm"

	"arena/internal/models"
)

// CreateConversation creates a conversation and its participants
func (r *Repository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

// GetConversationByID retrieves a conversation with its participants
func (r *Repository) GetConversationByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Where("id = ?", id).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversationsForUser returns conversations the user takes part in
func (r *Repository) ListConversationsForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Where("id IN (?)", r.db.Model(&models.Participant{}).Select("conversation_id").Where("user_id = ?", userID)).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// ListConversations returns recent conversations for browsing
func (r *Repository) ListConversations(ctx context.Context, limit int) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User").
		Order("updated_at DESC").
		Limit(limit).
		Find(&convs).Error
	return convs, err
}

// GetParticipant returns the user's participation, or gorm.ErrRecordNotFound
func (r *Repository) GetParticipant(ctx context.Context, conversationID, userID uint) (*models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateMessage stores a message and bumps the conversation's updated_at
func (r *Repository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// GetMessageByID retrieves a message with its author
func (r *Repository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns the messages of one topic in posting order
func (r *Repository) ListMessages(ctx context.Context, conversationID uint, topic string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("conversation_id = ? AND topic = ?", conversationID, topic).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// IncrementMessageCounter adds delta to loves, comments or views
func (r *Repository) IncrementMessageCounter(ctx context.Context, messageID uint, column string, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", messageID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// CountWords sums the words written outside the excluded topic
func (r *Repository) CountWords(ctx context.Context, conversationID uint, excludeTopic string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select("CAST(COALESCE(SUM(word_count), 0) AS BIGINT)").
		Where("conversation_id = ? AND topic <> ?", conversationID, excludeTopic).
		Scan(&total).Error
	return total, err
}

// CreateLove records a love reaction; it reports false when the user already loved the message
func (r *Repository) CreateLove(ctx context.Context, messageID, userID uint) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.MessageLove{}).
			Where("message_id = ? AND user_id = ?", messageID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&models.MessageLove{MessageID: messageID, UserID: userID}).Error; err != nil {
			return err
		}
		created = true
		return tx.Model(&models.Message{}).
			Where("id = ?", messageID).
			UpdateColumn("loves", gorm.Expr("loves + 1")).Error
	})
	return created, err
}

// CreateComment stores a comment and bumps the message's comment counter
func (r *Repository) CreateComment(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&models.Message{}).
			Where("id = ?", c.MessageID).
			UpdateColumn("comments", gorm.Expr("comments + 1")).Error
	})
}

// GetCommentByID retrieves a comment
func (r *Repository) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComment saves a comment
func (r *Repository) UpdateComment(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Model(c).Update("pinned", c.Pinned).Error
}

// ListComments returns root comments with their replies; pinned comments first
func (r *Repository) ListComments(ctx context.Context, messageID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Replies.Author").
		Where("message_id = ? AND parent_id IS NULL", messageID).
		Order("pinned DESC, created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}
