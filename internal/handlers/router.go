package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"arena/internal/auth"
	"arena/internal/logger"
	"arena/internal/metrics"
	"arena/internal/models"
	"arena/internal/realtime"
	"arena/internal/services"
)

// Deps are the services the HTTP API is built on
type Deps struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Referrals     *services.ReferralService
	Verifications *services.VerificationService
	Notifications *services.NotificationService
	Invites       *services.InviteService
	Payments      *services.PaymentService
	Conversations *services.ConversationService
	Admin         *services.AdminService
	Hub           *realtime.Hub
	Metrics       *metrics.Metrics

	FrontendURL   string
	PublicBaseURL string
}

// NewRouter wires every route of the API
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(logger.GinMiddleware(logger.Named("http")), gin.Recovery())

	allowedOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if d.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, d.FrontendURL)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	authHandler := NewAuthHandler(d.Auth)
	profileHandler := NewProfileHandler(d.Users, d.Referrals, d.PublicBaseURL)
	verificationHandler := NewVerificationHandler(d.Verifications)
	notificationHandler := NewNotificationHandler(d.Notifications, d.Hub)
	inviteHandler := NewInviteHandler(d.Invites)
	paymentHandler := NewPaymentHandler(d.Payments)
	conversationHandler := NewConversationHandler(d.Conversations)
	adminHandler := NewAdminHandler(d.Admin)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.GET("/me", auth.AuthMiddleware(), authHandler.GetMe)
	}

	// Public routes; a token, when present, personalizes the response
	public := router.Group("/api")
	public.Use(auth.OptionalAuth())
	{
		public.GET("/nav", notificationHandler.Navigation)
		public.GET("/profiles/:username", profileHandler.GetProfile)
		public.GET("/invite/:username", inviteHandler.Preview)
		public.GET("/invites/:id", inviteHandler.GetInvite)
		public.GET("/payments/quote", paymentHandler.GetQuote)

		public.GET("/conversations/recent", conversationHandler.GetRecent)
		public.GET("/conversations/:id", conversationHandler.GetConversation)
		public.GET("/conversations/:id/topics", conversationHandler.GetTopics)
		public.GET("/conversations/:id/messages", conversationHandler.GetMessages)
		public.GET("/conversations/:id/progress", conversationHandler.GetProgress)
		public.GET("/messages/:id/comments", conversationHandler.GetComments)
		public.POST("/messages/:id/view", conversationHandler.View)
	}

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/profile", profileHandler.GetMyProfile)
		api.PUT("/profile", profileHandler.UpdateProfile)
		api.DELETE("/profile/avatar", profileHandler.RemoveAvatar)
		api.PUT("/profile/social/:platform", profileHandler.SetSocialLink)
		api.DELETE("/profile/social/:platform", profileHandler.RemoveSocialLink)
		api.GET("/referrals", profileHandler.GetReferrals)

		api.GET("/verifications", verificationHandler.GetStatus)
		api.POST("/verifications/:platform/start", verificationHandler.Start)
		api.POST("/verifications/:platform/submit", verificationHandler.Submit)

		api.GET("/notifications", notificationHandler.List)
		api.GET("/notifications/unread", notificationHandler.UnreadCounts)
		api.GET("/notifications/ws", notificationHandler.Stream)
		api.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
		api.POST("/notifications/:id/read", notificationHandler.MarkAsRead)

		api.POST("/invites", inviteHandler.CreateInvite)
		api.GET("/invites", inviteHandler.GetMyInvites)
		api.POST("/invites/:id/accept", inviteHandler.Accept)
		api.POST("/invites/:id/decline", inviteHandler.Decline)
		api.POST("/invites/:id/proposals", inviteHandler.Propose)
		api.GET("/invites/:id/proposals", inviteHandler.ListProposals)
		api.POST("/invites/:id/proposals/:pid/accept", inviteHandler.AcceptProposal)
		api.POST("/invites/:id/proposals/:pid/dismiss", inviteHandler.DismissProposal)

		api.POST("/payments/authorize", paymentHandler.Authorize)
		api.GET("/payments/:id", paymentHandler.GetAuthorization)
		api.POST("/payments/:id/cancel", paymentHandler.Cancel)

		api.GET("/conversations", conversationHandler.GetMyConversations)
		api.POST("/conversations/:id/messages", conversationHandler.PostMessage)
		api.POST("/messages/:id/love", conversationHandler.Love)
		api.POST("/messages/:id/comments", conversationHandler.PostComment)
		api.POST("/comments/:id/pin", conversationHandler.TogglePin)
	}

	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware(), auth.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)
		admin.GET("/users", adminHandler.GetUsers)
		admin.PUT("/users/:id/role", adminHandler.SetUserRole)
		admin.GET("/verifications", adminHandler.GetPendingVerifications)
		admin.POST("/verifications/:id/review", adminHandler.ReviewVerification)
		admin.GET("/logs", adminHandler.GetAdminLogs)
	}

	return router
}
