// Package server contains the HTTP handlers for the forum API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	_ "forum/docs" // swagger docs
	"forum/internal/auth"
	"forum/internal/cache"
	"forum/internal/config"
	"forum/internal/database"
	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
	"forum/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "forum-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	programRepo repository.StudyProgramRepository

	tokens         *auth.TokenCodec
	authenticator  *auth.Authenticator
	sessions       *auth.SessionResolver
	postService    *service.PostService
	commentService *service.CommentService
	userService    *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient disables caching.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if redisClient != nil {
		cache.SetClient(redisClient)
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(serviceName),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		programRepo:    repository.NewStudyProgramRepository(db),
	}
	if err := s.wire(); err != nil {
		return nil, err
	}
	return s, nil
}

// wire builds the auth components and services on top of the repositories.
func (s *Server) wire() error {
	tokens, err := auth.NewTokenCodec(s.config.JWTSecret, s.config.JWTTTL, auth.WithIssuer(s.config.JWTIssuer))
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	s.tokens = tokens
	s.authenticator = auth.NewAuthenticator(s.userRepo, auth.NewBcryptHasher(s.config.BcryptCost), tokens)
	s.sessions = auth.NewSessionResolver(tokens, s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.programRepo)
	s.commentService = service.NewCommentService(s.postRepo, s.commentRepo)
	s.userService = service.NewUserService(s.userRepo)
	return nil
}

// NewApp returns a fiber app whose error handler renders the {error} shape.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "Forum API",
		ErrorHandler: errorHandler,
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return models.RespondWithError(c, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
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
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/status", s.Status)

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/me", s.AuthRequired(), s.Me)

	api.Get("/study-programs", s.GetStudyPrograms)

	optional := s.OptionalAuth()
	required := s.AuthRequired()

	posts := api.Group("/posts")
	posts.Get("/", optional, s.GetPosts)
	posts.Post("/", required, s.CreatePost)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Get("/:id/comments", optional, s.GetComments)
	posts.Post("/:id/comments", optional, s.CreateComment)
	posts.Delete("/:id/comments/:commentId", required, s.DeleteComment)
	posts.Put("/:id/publish", required, s.PublishPost)
	posts.Get("/:id", optional, s.GetPost)
	posts.Delete("/:id", required, s.DeletePost)

	api.Get("/user/posts", required, s.GetMyPosts)

	admin := api.Group("/admin", required)
	admin.Get("/users", s.ListUsers)
	admin.Put("/users/:id/role", s.ChangeUserRole)
	admin.Delete("/users/:id", s.DeleteUser)
}

// Handler returns the fully configured app, building it on first use.
func (s *Server) Handler() *fiber.App {
	if s.app == nil {
		app := NewApp()
		s.SetupMiddleware(app)
		s.SetupRoutes(app)
		s.app = app
	}
	return s.app
}

// Start starts the server
func (s *Server) Start() error {
	app := s.Handler()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
