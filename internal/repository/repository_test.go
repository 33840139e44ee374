package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"arena/internal/invite"
	"arena/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// a named in-memory database per test keeps tests isolated
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	u := &models.User{Name: username, Username: username, Email: username + "@example.com", PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestInviteLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	inviter := createUser(t, db, "gaurab")

	inv := &models.Invite{
		ID:            uuid.NewString(),
		InviterID:     inviter.ID,
		RecipientName: "Sam",
		Topics:        []string{"AI", "Text"},
		Event:         invite.Event{Type: invite.EventLength, Parameter: "500", TimePeriod: "3"},
		Payment:       &invite.Payment{Amount: "100", Method: invite.MethodStripe},
		Status:        invite.StatePresented,
		ExpiresAt:     time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.CreateInvite(ctx, inv))

	got, err := repo.GetInviteByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "Text"}, got.Topics)
	assert.Equal(t, "500", got.Event.Parameter)
	assert.Equal(t, "gaurab", got.Inviter.Username)
	require.NotNil(t, got.Payment)
	assert.Equal(t, invite.MethodStripe, got.Payment.Method)

	overdue, err := repo.ListOverdueInvites(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, overdue, 1)

	changed, err := repo.ExpireInvite(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.ExpireInvite(ctx, inv.ID)
	require.NoError(t, err)
	assert.False(t, changed, "an expired invite cannot expire twice")

	counts, err := repo.CountInvitesByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[invite.StateExpired])
}

func TestLoveIsOncePerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")
	fan := createUser(t, db, "fan")

	conv := &models.Conversation{Title: "c", Topics: []string{models.IntroductionTopic, "Main"}}
	require.NoError(t, repo.CreateConversation(ctx, conv))
	msg := &models.Message{ConversationID: conv.ID, Topic: "Main", AuthorID: author.ID, Content: "hello there", WordCount: 2, CreatedAt: time.Now()}
	require.NoError(t, repo.CreateMessage(ctx, msg))

	created, err := repo.CreateLove(ctx, msg.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateLove(ctx, msg.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetMessageByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Loves)
}

func TestCountWordsExcludesIntroduction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	conv := &models.Conversation{Title: "c", Topics: []string{models.IntroductionTopic, "Main"}}
	require.NoError(t, repo.CreateConversation(ctx, conv))

	for topic, words := range map[string]int{models.IntroductionTopic: 10, "Main": 7} {
		require.NoError(t, repo.CreateMessage(ctx, &models.Message{ConversationID: conv.ID, Topic: topic, AuthorID: author.ID, Content: "x", WordCount: words, CreatedAt: time.Now()}))
	}

	total, err := repo.CountWords(ctx, conv.ID, models.IntroductionTopic)
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
}

func TestListCommentsPinnedFirstWithReplies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "author")

	conv := &models.Conversation{Title: "c", Topics: []string{"Main"}}
	require.NoError(t, repo.CreateConversation(ctx, conv))
	msg := &models.Message{ConversationID: conv.ID, Topic: "Main", AuthorID: author.ID, Content: "x", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateMessage(ctx, msg))

	first := &models.Comment{MessageID: msg.ID, AuthorID: author.ID, Content: "first"}
	second := &models.Comment{MessageID: msg.ID, AuthorID: author.ID, Content: "second", Pinned: true}
	require.NoError(t, repo.CreateComment(ctx, first))
	require.NoError(t, repo.CreateComment(ctx, second))
	require.NoError(t, repo.CreateComment(ctx, &models.Comment{MessageID: msg.ID, AuthorID: author.ID, Content: "reply", ParentID: &first.ID}))

	comments, err := repo.ListComments(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	require.Len(t, comments[1].Replies, 1)
	assert.Equal(t, "reply", comments[1].Replies[0].Content)

	got, _ := repo.GetMessageByID(ctx, msg.ID)
	assert.Equal(t, 3, got.Comments)
}
