package server

import (
	"fmt"

	"chat-api/confs"
	"chat-api/db"
	httpHandler "chat-api/handlers/http"
	"chat-api/repositories"
	"chat-api/services"
	"chat-api/usecases"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	app    *gin.Engine
	db     db.Database
	cfg    *confs.Config
	logger *zap.Logger
}

func NewServer(database db.Database, cfg *confs.Config, logger *zap.Logger) *Server {
	s := &Server{
		app:    gin.New(),
		db:     database,
		cfg:    cfg,
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine { return s.app }

func (s *Server) setupRoutes() {
	s.app.Use(gin.Recovery())
	s.app.Use(httpHandler.RequestLogger(s.logger))

	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowCredentials = false
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "up",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	validatorRepo := repositories.NewValidatorPgRepository(s.db)

	// Initialize services
	mailer := services.NewSMTPMailer(s.cfg, s.logger)
	relay := services.NewRelayClient(s.logger)

	// Initialize use cases
	userUseCase := usecases.NewUserUseCase(userRepo, mailer, s.cfg, s.logger)
	conversationUseCase := usecases.NewConversationUseCase(s.db, relay, s.logger)
	validatorUseCase := usecases.NewValidatorUseCase(validatorRepo)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(userUseCase, s.cfg)
	chatHandler := httpHandler.NewChatHandler(conversationUseCase)
	validatorHandler := httpHandler.NewValidatorHandler(validatorUseCase)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// Authentication routes
		api.POST("/register", authHandler.Register)
		api.POST("/token", authHandler.Token)
		api.POST("/refresh_token", authHandler.RefreshToken)
		api.GET("/verify", authHandler.Verify)
		api.GET("/google/login", authHandler.GoogleLogin)
		api.GET("/google", authHandler.GoogleCallback)
		api.POST("/forgot_password", authHandler.ForgotPassword)
		api.POST("/reset_password", authHandler.ResetPassword)

		// Chat routes (owner-only, bearer auth)
		chats := api.Group("/chats", httpHandler.RequireAuth(userUseCase))
		{
			chats.POST("", chatHandler.CreateChat)
			chats.GET("", chatHandler.ListChats)
			chats.GET("/:id", chatHandler.GetChat)
			chats.PUT("/:id", chatHandler.RenameChat)
			chats.DELETE("/:id", chatHandler.DeleteChat)
			chats.POST("/:id/message", chatHandler.PostMessage)
			chats.GET("/:id/message", chatHandler.ListMessages)
			chats.DELETE("/:id/message/:message_id", chatHandler.DeleteMessage)
			chats.PUT("/:id/message/:message_id", chatHandler.PostVariation)
		}

		// Validator routes
		validators := api.Group("/validators")
		{
			validators.GET("/", validatorHandler.GetAllValidators)
			validators.GET("/uid/:uid", validatorHandler.GetValidatorByUID)
			validators.GET("/:id", validatorHandler.GetValidator)
		}
	}
}

func (s *Server) Start() {
	addr := fmt.Sprintf("%s:%d", s.cfg.AppHost, s.cfg.AppPort)
	if err := s.app.Run(addr); err != nil {
		panic(err)
	}
}
