package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"anoa.com/yamdb/internal/config"
	"anoa.com/yamdb/internal/middleware"
	"anoa.com/yamdb/internal/permission"
	"anoa.com/yamdb/pkg/mailer"
	"anoa.com/yamdb/pkg/ratelimiter"
	"anoa.com/yamdb/pkg/token"
	"anoa.com/yamdb/pkg/validator"

	categoryHttp "anoa.com/yamdb/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/yamdb/internal/modules/category/repository"
	categoryService "anoa.com/yamdb/internal/modules/category/service"

	commentHttp "anoa.com/yamdb/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/yamdb/internal/modules/comment/repository"
	commentService "anoa.com/yamdb/internal/modules/comment/service"

	genreHttp "anoa.com/yamdb/internal/modules/genre/delivery/http"
	genreRepo "anoa.com/yamdb/internal/modules/genre/repository"
	genreService "anoa.com/yamdb/internal/modules/genre/service"

	reviewHttp "anoa.com/yamdb/internal/modules/review/delivery/http"
	reviewRepo "anoa.com/yamdb/internal/modules/review/repository"
	reviewService "anoa.com/yamdb/internal/modules/review/service"

	searchService "anoa.com/yamdb/internal/modules/search/service"

	titleHttp "anoa.com/yamdb/internal/modules/title/delivery/http"
	titleRepo "anoa.com/yamdb/internal/modules/title/repository"
	titleService "anoa.com/yamdb/internal/modules/title/service"

	userHttp "anoa.com/yamdb/internal/modules/user/delivery/http"
	userRepo "anoa.com/yamdb/internal/modules/user/repository"
	userService "anoa.com/yamdb/internal/modules/user/service"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewServer wires repositories, services and handlers into a gin engine.
// redisClient may be nil, which disables the signup resend cooldown.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, logger *slog.Logger) (*Server, error) {
	if err := validator.RegisterGin(); err != nil {
		return nil, err
	}

	// Identity
	userRepository := userRepo.NewUserRepository(db)
	issuer := token.NewIssuer(token.DeriveKey(cfg.SecretKey, token.PurposeAccessToken), cfg.JWTTTL)
	codes := token.NewCodeGenerator(token.DeriveKey(cfg.SecretKey, token.PurposeConfirmationCode), cfg.ConfirmationCodeTTL)

	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		})
	} else {
		logger.Warn("SMTP_HOST is not set, confirmation codes are written to the log")
		mail = mailer.NewLogMailer(logger)
	}

	authSvc := userService.NewAuthService(userRepository, mail, codes, issuer, ratelimiter.New(redisClient), userService.AuthConfig{
		MailFrom:       cfg.MailFrom,
		SignupCooldown: cfg.SignupCooldown,
	})
	authHandler := userHttp.NewAuthHandler(authSvc)
	userHandler := userHttp.NewUserHandler(userService.NewUserService(userRepository, cfg.PageSize))

	// Catalog
	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categoryHandler := categoryHttp.NewCategoryHandler(categoryService.NewCategoryService(categoryRepository, cfg.PageSize))

	genreRepository := genreRepo.NewGenreRepository(db)
	genreHandler := genreHttp.NewGenreHandler(genreService.NewGenreService(genreRepository, cfg.PageSize))

	var index titleService.SearchIndex
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		index = searchService.NewTitleIndex(meiliClient)
	} else {
		logger.Info("MEILISEARCH_HOST is not set, title search uses the database")
	}
	titleSvc := titleService.NewTitleService(titleRepo.NewTitleRepository(db), categoryRepository, genreRepository, index, cfg.PageSize)
	titleHandler := titleHttp.NewTitleHandler(titleSvc)

	// Feedback
	reviewRepository := reviewRepo.NewReviewRepository(db)
	reviewHandler := reviewHttp.NewReviewHandler(reviewService.NewReviewService(reviewRepository, cfg.PageSize))
	commentHandler := commentHttp.NewCommentHandler(commentService.NewCommentService(commentRepo.NewCommentRepository(db), reviewRepository, cfg.PageSize))

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, "/health", "/metrics"))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router.Use(middleware.NewMetrics(registry).Handler())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/health", healthCheck(db))

	authMiddleware := middleware.NewAuthMiddleware(userRepository, issuer)

	v1 := router.Group("/v1")
	v1.Use(authMiddleware.Authenticate())

	// Public routes (no auth required)
	auth := v1.Group("/auth")
	{
		auth.POST("/signup/", authHandler.Signup)
		auth.POST("/token/", authHandler.Token)
	}

	users := v1.Group("/users")
	users.Use(authMiddleware.RequireAuth())
	{
		users.GET("/me/", userHandler.GetMe)
		users.PATCH("/me/", userHandler.UpdateMe)

		// PATCH depends on the submitted username and is checked by the handler.
		users.PATCH("/:username/", userHandler.UpdateUser)

		identity := users.Group("")
		identity.Use(middleware.Authorize(permission.IdentityPolicy))
		identity.GET("/", userHandler.GetAllUsers)
		identity.POST("/", userHandler.CreateUser)
		identity.GET("/:username/", userHandler.GetUser)
		identity.DELETE("/:username/", userHandler.DeleteUser)
	}

	catalog := v1.Group("")
	catalog.Use(middleware.Authorize(permission.Catalog))
	{
		catalog.GET("/categories/", categoryHandler.GetAllCategories)
		catalog.POST("/categories/", categoryHandler.CreateCategory)
		catalog.DELETE("/categories/:slug/", categoryHandler.DeleteCategory)

		catalog.GET("/genres/", genreHandler.GetAllGenres)
		catalog.POST("/genres/", genreHandler.CreateGenre)
		catalog.DELETE("/genres/:slug/", genreHandler.DeleteGenre)

		catalog.GET("/titles/", titleHandler.GetAllTitles)
		catalog.POST("/titles/", titleHandler.CreateTitle)
		catalog.GET("/titles/search/", titleHandler.SearchTitles)
		catalog.GET("/titles/:title_id/", titleHandler.GetTitle)
		catalog.PATCH("/titles/:title_id/", titleHandler.UpdateTitle)
		catalog.DELETE("/titles/:title_id/", titleHandler.DeleteTitle)
	}

	reviews := v1.Group("/titles/:title_id/reviews")
	reviews.Use(middleware.Authorize(permission.Feedback))
	{
		reviews.GET("/", reviewHandler.GetAllReviews)
		reviews.POST("/", reviewHandler.CreateReview)
		reviews.GET("/:review_id/", reviewHandler.GetReview)
		reviews.PATCH("/:review_id/", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id/", reviewHandler.DeleteReview)

		comments := reviews.Group("/:review_id/comments")
		comments.GET("/", commentHandler.GetAllComments)
		comments.POST("/", commentHandler.CreateComment)
		comments.GET("/:comment_id/", commentHandler.GetComment)
		comments.PATCH("/:comment_id/", commentHandler.UpdateComment)
		comments.DELETE("/:comment_id/", commentHandler.DeleteComment)
	}

	return &Server{
		engine: router,
		db:     db,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
