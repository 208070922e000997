// Package server contains the HTTP handlers for the board API. The rendering
// layer (any single-page client) calls these endpoints and re-queries full
// state after each mutation.
package server

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fanboard/internal/cache"
	"fanboard/internal/config"
	"fanboard/internal/database"
	"fanboard/internal/middleware"
	"fanboard/internal/models"
	"fanboard/internal/repository"
	"fanboard/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	messageRepo repository.MessageRepository
	replyRepo   repository.ReplyRepository
	adminRepo   repository.AdminRepository

	boardService    *service.BoardService
	identityService *service.IdentityService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	messageRepo := repository.NewMessageRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	prom := middleware.InitMetrics("fanboard-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		messageRepo:    messageRepo,
		replyRepo:      replyRepo,
		adminRepo:      adminRepo,
	}
	server.boardService = service.NewBoardService(messageRepo, replyRepo, adminRepo)
	server.identityService = service.NewIdentityService(adminRepo, cfg.JWTSecret)

	middleware.InitMiddleware(cfg)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (120 requests per minute per IP). The board client
	// polls for fresh state, so the ceiling stays generous.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Admin profile
	profile := api.Group("/profile")
	profile.Get("/:username", s.GetProfile)
	profile.Put("/", middleware.AuthRequired, s.UpdateProfile)

	// Message routes; visitors post and react anonymously
	messages := api.Group("/messages", middleware.AuthOptional)
	messages.Get("/", s.ListMessages)
	messages.Post("/", middleware.RateLimit(s.redis, 30, time.Minute, "post_message"), s.PostMessage)
	messages.Get("/:id", s.GetMessage)
	messages.Delete("/:id", middleware.AuthRequired, s.DeleteMessage)
	messages.Put("/:id/pin", middleware.AuthRequired, s.SetPinned)
	messages.Post("/:id/reactions", middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.React)
	messages.Get("/:id/reactions", s.GetReactionCounts)

	// Reply routes
	messages.Get("/:id/replies", s.ListReplies)
	messages.Post("/:id/replies", middleware.RateLimit(s.redis, 30, time.Minute, "reply"), s.CreateReply)
	replies := api.Group("/replies", middleware.AuthRequired)
	replies.Put("/:id", s.UpdateReply)
	replies.Delete("/:id", s.DeleteReply)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

// sessionFromCtx builds the capability value handlers pass into the services.
// Anonymous requests produce a zero Session.
func sessionFromCtx(c *fiber.Ctx) models.Session {
	if admin := c.Locals("adminUsername"); admin != nil {
		if username, ok := admin.(string); ok {
			return models.Session{AdminUsername: username}
		}
	}
	return models.Session{}
}

// parseID reads a numeric path parameter, responding with 400 on garbage input.
func (s *Server) parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid ID"))
		return 0, err
	}
	return uint(id), nil
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeStorageUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
