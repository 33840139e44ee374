package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"arena/internal/models"
	"arena/internal/repository"
	"arena/internal/utils"
)

const maxMessageImages = 4

// MessageInput is a new post under one topic
type MessageInput struct {
	Topic     string   `json:"topic"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	ReplyToID *uint    `json:"reply_to_id"`
}

// Progress compares words written with the invite's target
type Progress struct {
	WordsWritten int64 `json:"words_written"`
	WordTarget   int   `json:"word_target"`
	Days         int   `json:"days"`
	Minutes      int   `json:"minutes"`
	Percent      int   `json:"percent"`
}

// ConversationView is a conversation as seen by one viewer
type ConversationView struct {
	*models.Conversation
	IsHost   bool     `json:"is_host"`
	Progress Progress `json:"progress"`
}

// ConversationService reads and writes hosted conversations
type ConversationService struct {
	repo   *repository.Repository
	notify *NotificationService
}

func NewConversationService(db *gorm.DB, notify *NotificationService) *ConversationService {
	return &ConversationService{repo: repository.NewRepository(db), notify: notify}
}

// ListForUser returns the conversations a user takes part in
func (s *ConversationService) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.repo.ListConversationsForUser(ctx, userID)
}

// ListRecent returns recently active conversations
func (s *ConversationService) ListRecent(ctx context.Context, limit int) ([]models.Conversation, error) {
	return s.repo.ListConversations(ctx, limit)
}

// Get returns a conversation; viewerID 0 is an anonymous reader
func (s *ConversationService) Get(ctx context.Context, id, viewerID uint) (*ConversationView, error) {
	conv, err := s.repo.GetConversationByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "conversation")
	}
	progress, err := s.progress(ctx, conv)
	if err != nil {
		return nil, err
	}
	return &ConversationView{
		Conversation: conv,
		IsHost:       isHost(conv, viewerID),
		Progress:     progress,
	}, nil
}

func isHost(conv *models.Conversation, userID uint) bool {
	if userID == 0 {
		return false
	}
	for _, p := range conv.Participants {
		if p.UserID == userID && p.IsHost {
			return true
		}
	}
	return false
}

// ListTopics returns the conversation's topics in order
func (s *ConversationService) ListTopics(ctx context.Context, id uint) ([]string, error) {
	conv, err := s.repo.GetConversationByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "conversation")
	}
	return conv.Topics, nil
}

// ListMessages returns the messages of one topic
func (s *ConversationService) ListMessages(ctx context.Context, id uint, topic string) ([]models.Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "conversation")
	}
	if !hasTopic(conv, topic) {
		return nil, fmt.Errorf("topic %w", ErrNotFound)
	}
	return s.repo.ListMessages(ctx, id, topic)
}

func hasTopic(conv *models.Conversation, topic string) bool {
	for _, t := range conv.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// AddMessage posts a message; only participants may post
func (s *ConversationService) AddMessage(ctx context.Context, id, authorID uint, in MessageInput) (*models.Message, error) {
	conv, err := s.repo.GetConversationByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "conversation")
	}
	if _, err := s.repo.GetParticipant(ctx, id, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("only participants can post: %w", ErrForbidden)
		}
		return nil, err
	}
	if !hasTopic(conv, in.Topic) {
		return nil, invalidf("Unknown topic %q.", in.Topic)
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, invalidf("Message cannot be empty.")
	}
	if len(in.Images) > maxMessageImages {
		return nil, invalidf("A message can have at most %d images.", maxMessageImages)
	}
	if in.ReplyToID != nil {
		parent, err := s.repo.GetMessageByID(ctx, *in.ReplyToID)
		if err != nil || parent.ConversationID != id {
			return nil, invalidf("The message you are replying to does not exist.")
		}
	}

	msg := &models.Message{
		ConversationID: id,
		Topic:          in.Topic,
		AuthorID:       authorID,
		Content:        content,
		Images:         in.Images,
		WordCount:      utils.CountWords(content),
		ReplyToID:      in.ReplyToID,
		CreatedAt:      time.Now(),
	}
	if msg.Images == nil {
		msg.Images = []string{}
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	for _, p := range conv.Participants {
		if p.UserID == authorID {
			continue
		}
		s.notify.Notify(ctx, &models.Notification{
			UserID:  p.UserID,
			Type:    models.NotificationMessage,
			Title:   conv.Title,
			Body:    fmt.Sprintf("New message in %s", in.Topic),
			Link:    fmt.Sprintf("/conversations/%d", id),
			Channel: models.ChannelMessage,
		})
	}
	return s.repo.GetMessageByID(ctx, msg.ID)
}

// Love adds the user's love reaction once; it reports whether it was new
func (s *ConversationService) Love(ctx context.Context, messageID, userID uint) (bool, error) {
	msg, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return false, notFound(err, "message")
	}
	created, err := s.repo.CreateLove(ctx, messageID, userID)
	if err != nil {
		return false, err
	}
	if created && msg.AuthorID != userID {
		s.notify.Notify(ctx, &models.Notification{
			UserID: msg.AuthorID,
			Type:   models.NotificationLike,
			Title:  "New love",
			Body:   "Someone loved your message.",
			Link:   fmt.Sprintf("/conversations/%d", msg.ConversationID),
		})
	}
	return created, nil
}

// View counts a view of a message
func (s *ConversationService) View(ctx context.Context, messageID uint) error {
	if _, err := s.repo.GetMessageByID(ctx, messageID); err != nil {
		return notFound(err, "message")
	}
	return s.repo.IncrementMessageCounter(ctx, messageID, "views", 1)
}

// AddComment comments on a message, or replies when parentID is set.
// Replies to replies attach to the root comment.
func (s *ConversationService) AddComment(ctx context.Context, messageID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	msg, err := s.repo.GetMessageByID(ctx, messageID)
	if err != nil {
		return nil, notFound(err, "message")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidf("Comment cannot be empty.")
	}

	notifyID := msg.AuthorID
	c := &models.Comment{MessageID: messageID, AuthorID: authorID, Content: content}
	if parentID != nil {
		parent, err := s.repo.GetCommentByID(ctx, *parentID)
		if err != nil || parent.MessageID != messageID {
			return nil, invalidf("The comment you are replying to does not exist.")
		}
		if parent.ParentID != nil {
			parent, err = s.repo.GetCommentByID(ctx, *parent.ParentID)
			if err != nil {
				return nil, notFound(err, "comment")
			}
		}
		c.ParentID = &parent.ID
		notifyID = parent.AuthorID
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	if notifyID != authorID {
		s.notify.Notify(ctx, &models.Notification{
			UserID: notifyID,
			Type:   models.NotificationReply,
			Title:  "New reply",
			Body:   content,
			Link:   fmt.Sprintf("/conversations/%d", msg.ConversationID),
		})
	}
	return c, nil
}

// TogglePin pins or unpins a comment; only hosts of the conversation may
func (s *ConversationService) TogglePin(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	c, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	msg, err := s.repo.GetMessageByID(ctx, c.MessageID)
	if err != nil {
		return nil, notFound(err, "message")
	}
	p, err := s.repo.GetParticipant(ctx, msg.ConversationID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if p == nil || !p.IsHost {
		return nil, fmt.Errorf("only hosts can pin comments: %w", ErrForbidden)
	}
	c.Pinned = !c.Pinned
	if err := s.repo.UpdateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments returns a message's comments, pinned first
func (s *ConversationService) ListComments(ctx context.Context, messageID uint) ([]models.Comment, error) {
	if _, err := s.repo.GetMessageByID(ctx, messageID); err != nil {
		return nil, notFound(err, "message")
	}
	return s.repo.ListComments(ctx, messageID)
}

// Progress returns words written against the conversation's target
func (s *ConversationService) Progress(ctx context.Context, id uint) (Progress, error) {
	conv, err := s.repo.GetConversationByID(ctx, id)
	if err != nil {
		return Progress{}, notFound(err, "conversation")
	}
	return s.progress(ctx, conv)
}

func (s *ConversationService) progress(ctx context.Context, conv *models.Conversation) (Progress, error) {
	words, err := s.repo.CountWords(ctx, conv.ID, models.IntroductionTopic)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{
		WordsWritten: words,
		WordTarget:   conv.WordTarget,
		Days:         conv.Days,
		Minutes:      conv.Minutes,
	}
	if conv.WordTarget > 0 {
		p.Percent = int(words * 100 / int64(conv.WordTarget))
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p, nil
}
