package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"arena/internal/auth"
	"arena/internal/cache"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/payment"
	"arena/internal/realtime"
	"arena/internal/services"
	"arena/internal/storage"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	auth.InitJWT("handler-test-secret")
	os.Exit(m.Run())
}

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	m := metrics.New()
	hub := realtime.NewHub()
	verificationCache := cache.NewVerificationCache(nil, time.Minute)
	referrals := services.NewReferralService(db)
	users := services.NewUserService(db, verificationCache)
	notify := services.NewNotificationService(db, hub, m)
	payments := services.NewPaymentService(db, payment.NewRegistry(0), payment.DefaultFeePercent, m)
	verifications := services.NewVerificationService(db, verificationCache, store, notify, time.Hour)

	router := NewRouter(Deps{
		Auth:          services.NewAuthService(db, referrals),
		Users:         users,
		Referrals:     referrals,
		Verifications: verifications,
		Notifications: notify,
		Invites:       services.NewInviteService(db, users, payments, notify, m, "https://arena.test", 24*time.Hour),
		Payments:      payments,
		Conversations: services.NewConversationService(db, notify),
		Admin:         services.NewAdminService(db, users, verifications),
		Hub:           hub,
		Metrics:       m,
		PublicBaseURL: "https://arena.test",
	})
	return &testServer{db: db, router: router}
}

func (s *testServer) createUser(t *testing.T, username, role string) (*models.User, string) {
	u := &models.User{
		Name:         username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, s.db.Create(u).Error)
	token, err := auth.GenerateToken(u.ID, u.Username, u.Role)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterLoginAndMe(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name":             "Gaurab",
		"email":            "gaurab@example.com",
		"username":         "gaurab",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])

	w, body = s.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name":             "Other",
		"email":            "other@example.com",
		"username":         "gaurab",
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, auth.CodeUsernameTaken, body["code"])
	assert.NotEmpty(t, body["suggestion"])

	w, _ = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "gaurab@example.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "GAURAB@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)

	w, body = s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gaurab", body["user"].(map[string]interface{})["username"])
}

func TestNavigation(t *testing.T) {
	s := newTestServer(t)
	_, adminToken := s.createUser(t, "root", models.RoleAdmin)

	w, body := s.do(t, http.MethodGet, "/api/nav?path=/topics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["authenticated"])
	links := body["links"].([]interface{})
	require.Len(t, links, 4)
	assert.Equal(t, true, links[1].(map[string]interface{})["active"])

	w, body = s.do(t, http.MethodGet, "/api/nav?path=/messages", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", body["username"])
	links = body["links"].([]interface{})
	require.Len(t, links, 6)
	assert.Equal(t, "Admin", links[5].(map[string]interface{})["label"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, "gaurab", models.RoleUser)

	w, _ := s.do(t, http.MethodGet, "/api/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvitePreviewUnknownProfile(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/api/invite/nobody?topics=AI", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profile Not Found", body["error"])
}

func TestInviteFlow(t *testing.T) {
	s := newTestServer(t)
	_, gaurabToken := s.createUser(t, "gaurab", models.RoleUser)
	sam, samToken := s.createUser(t, "samc", models.RoleUser)

	w, body := s.do(t, http.MethodPost, "/api/invites", gaurabToken, map[string]interface{}{
		"recipient_name": "Sam",
		"topics":         []string{"Future of Text"},
		"platforms":      []string{"twitter"},
		"event":          map[string]string{"type": "length", "parameter": "500", "timePeriod": "3"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["invite"].(map[string]interface{})["id"].(string)
	link := body["url"].(string)
	assert.Contains(t, link, "https://arena.test/invite/gaurab?")

	path := link[len("https://arena.test"):]
	w, body = s.do(t, http.MethodGet, "/api"+path, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	offer := body["offer"].(map[string]interface{})
	assert.Equal(t, "Sam", offer["recipientName"])
	assert.Equal(t, "presented", body["status"])

	w, _ = s.do(t, http.MethodPost, "/api/invites/"+id+"/accept", gaurabToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/invites/"+id+"/accept", samToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	conv := body["conversation"].(map[string]interface{})
	convID := uint(conv["id"].(float64))
	assert.Equal(t, []interface{}{"Introduction", "Future of Text"}, conv["topics"])

	w, _ = s.do(t, http.MethodPost, "/api/invites/"+id+"/decline", samToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	msgPath := fmt.Sprintf("/api/conversations/%d/messages", convID)
	w, body = s.do(t, http.MethodPost, msgPath, samToken, map[string]interface{}{
		"topic":   "Introduction",
		"content": "Hi Gaurab, great to be here.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	msg := body["message"].(map[string]interface{})
	assert.Equal(t, float64(sam.ID), msg["author_id"])

	w, body = s.do(t, http.MethodGet, msgPath+"?topic=Introduction", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["messages"].([]interface{}), 1)

	w, _ = s.do(t, http.MethodGet, msgPath+"?topic=Unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/conversations/%d", convID), samToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_host"])

	w, body = s.do(t, http.MethodGet, "/api/notifications/unread", gaurabToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["bell"])
	assert.Equal(t, float64(1), body["message"])
}

func TestPaymentsQuoteAndAuthorize(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, "gaurab", models.RoleUser)

	w, body := s.do(t, http.MethodGet, "/api/payments/quote?amount=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "107", body["total"])

	w, _ = s.do(t, http.MethodGet, "/api/payments/quote?amount=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(t, http.MethodPost, "/api/payments/authorize", token, map[string]interface{}{
		"amount": "100",
		"method": "stripe",
		"card":   map[string]string{"number": "4242", "expiry": "12/30", "cvc": "123", "name": "G"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body, "fields")

	w, body = s.do(t, http.MethodPost, "/api/payments/authorize", token, map[string]interface{}{
		"amount": "100",
		"method": "paypal",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["authorization"].(map[string]interface{})["id"].(string)

	w, _ = s.do(t, http.MethodPost, "/api/payments/"+id+"/cancel", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, "/api/payments/"+id+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVerificationSubmitAndReview(t *testing.T) {
	s := newTestServer(t)
	_, token := s.createUser(t, "gaurab", models.RoleUser)
	_, adminToken := s.createUser(t, "root", models.RoleAdmin)

	w, _ := s.do(t, http.MethodPost, "/api/verifications/twitter/start", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/profile/social/twitter", token, map[string]string{"url": "https://x.com/gaurab"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, body := s.do(t, http.MethodPost, "/api/verifications/twitter/start", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, body["code"])

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("screenshot", "proof.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png bytes"))
	require.NoError(t, mw.WriteField("proof_url", "https://x.com/gaurab/status/1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/verifications/twitter/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w, body = s.do(t, http.MethodGet, "/api/admin/verifications", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pending := body["verifications"].([]interface{})
	require.Len(t, pending, 1)
	vid := uint(pending[0].(map[string]interface{})["id"].(float64))

	w, body = s.do(t, http.MethodPost, fmt.Sprintf("/api/admin/verifications/%d/review", vid), adminToken, map[string]interface{}{"approve": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "verified", body["verification"].(map[string]interface{})["status"])

	w, body = s.do(t, http.MethodGet, "/api/profiles/gaurab", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"twitter"}, body["profile"].(map[string]interface{})["verified_platforms"])
}

func TestAdminSetRole(t *testing.T) {
	s := newTestServer(t)
	root, adminToken := s.createUser(t, "root", models.RoleAdmin)
	user, _ := s.createUser(t, "gaurab", models.RoleUser)

	w, body := s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", user.ID), adminToken, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "admin", body["user"].(map[string]interface{})["role"])

	w, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", root.ID), adminToken, map[string]string{"role": "user"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = s.do(t, http.MethodGet, "/api/admin/logs", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}
