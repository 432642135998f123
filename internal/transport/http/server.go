package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"unihelp/internal/ai"
	appsvc "unihelp/internal/app"
	"unihelp/internal/bootstrap"
	"unihelp/internal/cache"
	"unihelp/internal/model"
	"unihelp/internal/platform/rabbitmq"
	"unihelp/internal/repository"
	"unihelp/internal/transport/http/handler"
	"unihelp/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	sessionRepo := repository.NewChatSessionRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	materialRepo := repository.NewMaterialRepository(app.MySQL)
	fragmentRepo := repository.NewFragmentRepository(app.MySQL)
	issueRepo := repository.NewIssueRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	materialService := appsvc.NewMaterialService(materialRepo, fragmentRepo, app.Files)
	knowledgeService := appsvc.NewKnowledgeService(fragmentRepo)
	issueService := appsvc.NewIssueService(issueRepo)

	windowCache := cache.NewWindowCache(app.Redis, time.Duration(app.Config.Chat.WindowTTLSeconds)*time.Second)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)
	chatService := appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		fragmentRepo,
		app.Windows,
		windowCache,
		publisher,
		ai.NewOpenAICompatibleClient(),
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		app.Config.Chat.MaxWindow,
		time.Duration(app.Config.LLM.ReplyTimeoutSeconds)*time.Second,
	)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	materialHandler := handler.NewMaterialHandler(materialService)
	knowledgeHandler := handler.NewKnowledgeHandler(knowledgeService)
	issueHandler := handler.NewIssueHandler(issueService)

	authJWT := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authJWT, authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authJWT)
	chatGroup.POST("/sessions", chatHandler.CreateSession)
	chatGroup.GET("/sessions", chatHandler.ListSessions)
	chatGroup.DELETE("/sessions/:id", chatHandler.DeleteSession)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/history", chatHandler.GetHistory)

	materialGroup := v1.Group("/materials")
	materialGroup.Use(authJWT)
	materialGroup.POST("", middleware.RequireRole(model.RoleFaculty), materialHandler.Submit)
	materialGroup.GET("/mine", middleware.RequireRole(model.RoleFaculty), materialHandler.ListMine)
	materialGroup.PUT("/:id", middleware.RequireRole(model.RoleFaculty), materialHandler.Edit)
	materialGroup.DELETE("/:id", middleware.RequireRole(model.RoleFaculty), materialHandler.Delete)
	materialGroup.GET("/pending", middleware.RequireRole(model.RoleAdmin), materialHandler.ListPending)
	materialGroup.POST("/:id/review", middleware.RequireRole(model.RoleAdmin), materialHandler.Review)
	materialGroup.POST("/:id/convert", middleware.RequireRole(model.RoleAdmin), materialHandler.Convert)

	knowledgeGroup := v1.Group("/knowledge")
	knowledgeGroup.Use(authJWT, middleware.RequireRole(model.RoleAdmin))
	knowledgeGroup.GET("", knowledgeHandler.List)
	knowledgeGroup.POST("", knowledgeHandler.Create)
	knowledgeGroup.PUT("/:id", knowledgeHandler.Edit)
	knowledgeGroup.DELETE("/:id", knowledgeHandler.Delete)
	knowledgeGroup.GET("/preview", knowledgeHandler.Preview)

	issueGroup := v1.Group("/issues")
	issueGroup.Use(authJWT)
	issueGroup.POST("", issueHandler.Create)
	issueGroup.GET("", issueHandler.List)
	issueGroup.PATCH("/:id/status", middleware.RequireRole(model.RoleAdmin), issueHandler.UpdateStatus)

	return router
}
