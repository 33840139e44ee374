package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"arena/internal/cache"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/payment"
	"arena/internal/storage"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	u := &models.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

type published struct {
	UserID  uint
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(userID uint, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{UserID: userID, Type: eventType, Payload: payload})
}

func (p *recordingPublisher) last() published {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return published{}
	}
	return p.events[len(p.events)-1]
}

type fixture struct {
	db            *gorm.DB
	publisher     *recordingPublisher
	cache         *cache.VerificationCache
	users         *UserService
	notify        *NotificationService
	payments      *PaymentService
	invites       *InviteService
	conversations *ConversationService
	verifications *VerificationService
	admin         *AdminService
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{db: db, publisher: &recordingPublisher{}}
	m := metrics.New()
	f.cache = cache.NewVerificationCache(nil, time.Minute)
	f.users = NewUserService(db, f.cache)
	f.notify = NewNotificationService(db, f.publisher, m)
	f.payments = NewPaymentService(db, payment.NewRegistry(0), payment.DefaultFeePercent, m)
	f.invites = NewInviteService(db, f.users, f.payments, f.notify, m, "https://arena.test", 14*24*time.Hour)
	f.conversations = NewConversationService(db, f.notify)
	f.verifications = NewVerificationService(db, f.cache, store, f.notify, 24*time.Hour)
	f.admin = NewAdminService(db, f.users, f.verifications)
	return f
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	var ns []models.Notification
	require.NoError(t, db.WithContext(context.Background()).Where("user_id = ?", userID).Order("id").Find(&ns).Error)
	return ns
}
