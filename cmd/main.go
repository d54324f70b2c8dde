package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/vidtube/vidtube-api/internal/facades"
	"github.com/vidtube/vidtube-api/internal/handlers"
	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/repositories"
	"github.com/vidtube/vidtube-api/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds all application settings loaded from the environment.
type config struct {
	appHost       string
	appPort       string
	logLevel      string
	env           string
	corsOrigins   []string
	uploadTimeout time.Duration

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisHost         string
	redisPort         int
	redisDB           int
	redisPassword     string
	redisPoolSize     int
	redisMinIdleConns int
	statsCacheTTL     time.Duration

	kafkaBrokers []string
	kafkaTopic   string

	s3Region     string
	s3Endpoint   string
	s3Bucket     string
	mediaBaseURL string

	jwtAccessSecret  string
	jwtRefreshSecret string
	jwtAccessExp     time.Duration
	jwtRefreshExp    time.Duration
}

// secureCookies reports whether auth cookies should carry the Secure flag.
func (c *config) secureCookies() bool {
	return c.env == "production"
}

// @title vidtube API
// @version 1.0.0
// @description Backend service for a video sharing platform: channels, videos, comments, likes, subscriptions, tweets and playlists
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// application, database, Redis, Kafka, media storage and JWT configuration.
func parseConfig(path string) (*config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getEnvInt := func(key, defaultValue string) (int, error) {
		n, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", key, err)
		}
		return n, nil
	}

	cfg := &config{}
	var err error

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.env = getEnv("APP_ENV", "development")
	cfg.corsOrigins = strings.Split(getEnv("APP_CORS_ORIGINS", "*"), ",")
	uploadTimeoutSecond, err := getEnvInt("APP_UPLOAD_TIMEOUT_SECOND", "120")
	if err != nil {
		return nil, err
	}
	cfg.uploadTimeout = time.Duration(uploadTimeoutSecond) * time.Second

	// PostgreSQL config
	cfg.pgHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "vidtube")
	if cfg.pgPort, err = getEnvInt("POSTGRES_PORT", "5432"); err != nil {
		return nil, err
	}
	if cfg.pgMaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", "16"); err != nil {
		return nil, err
	}
	if cfg.pgMaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", "8"); err != nil {
		return nil, err
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "localhost")
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisPort, err = getEnvInt("REDIS_PORT", "6379"); err != nil {
		return nil, err
	}
	if cfg.redisDB, err = getEnvInt("REDIS_DB", "0"); err != nil {
		return nil, err
	}
	if cfg.redisPoolSize, err = getEnvInt("REDIS_POOL_SIZE", "10"); err != nil {
		return nil, err
	}
	if cfg.redisMinIdleConns, err = getEnvInt("REDIS_MIN_IDLE_CONNS", "2"); err != nil {
		return nil, err
	}
	statsTTLSecond, err := getEnvInt("CHANNEL_STATS_TTL_SECOND", "300")
	if err != nil {
		return nil, err
	}
	cfg.statsCacheTTL = time.Duration(statsTTLSecond) * time.Second

	// Kafka config
	cfg.kafkaBrokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	cfg.kafkaTopic = getEnv("KAFKA_ENGAGEMENT_TOPIC", "engagement-events")

	// Media storage config
	cfg.s3Region = getEnv("S3_REGION", "us-east-1")
	cfg.s3Endpoint = getEnv("S3_ENDPOINT", "")
	cfg.s3Bucket = getEnv("S3_BUCKET", "vidtube-media")
	cfg.mediaBaseURL = getEnv("MEDIA_BASE_URL", "")

	// JWT config
	cfg.jwtAccessSecret = getEnv("JWT_ACCESS_SECRET", "my_super_secret_key")
	cfg.jwtRefreshSecret = getEnv("JWT_REFRESH_SECRET", "my_other_secret_key")
	accessExpSecond, err := getEnvInt("JWT_ACCESS_EXP_SECOND", "900")
	if err != nil {
		return nil, err
	}
	refreshExpSecond, err := getEnvInt("JWT_REFRESH_EXP_SECOND", "864000")
	if err != nil {
		return nil, err
	}
	cfg.jwtAccessExp = time.Duration(accessExpSecond) * time.Second
	cfg.jwtRefreshExp = time.Duration(refreshExpSecond) * time.Second

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka, the media store
// and the HTTP server. It sets up routes, applies middleware, and
// handles graceful shutdown.
func run(ctx context.Context, cfg *config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	// Connect to PostgreSQL
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
	logger.Log.Infof("Connecting to PostgreSQL at %s:%d", cfg.pgHost, cfg.pgPort)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.pgMaxOpenConns)
	db.SetMaxIdleConns(cfg.pgMaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("PostgreSQL ping failed: %w", err)
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.redisHost, cfg.redisPort),
		Password:     cfg.redisPassword,
		DB:           cfg.redisDB,
		PoolSize:     cfg.redisPoolSize,
		MinIdleConns: cfg.redisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer for engagement events
	kafkaWriter := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.kafkaBrokers...),
		Topic:                  cfg.kafkaTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	defer kafkaWriter.Close()

	// Media store
	mediaStore, err := facades.NewS3MediaStore(ctx, facades.MediaConfig{
		Region:        cfg.s3Region,
		Endpoint:      cfg.s3Endpoint,
		Bucket:        cfg.s3Bucket,
		PublicBaseURL: cfg.mediaBaseURL,
	})
	if err != nil {
		return fmt.Errorf("media store init failed: %w", err)
	}

	// Initialize JWT service
	tokens := jwt.New(
		jwt.WithAccessSecret(cfg.jwtAccessSecret),
		jwt.WithRefreshSecret(cfg.jwtRefreshSecret),
		jwt.WithAccessExpiration(cfg.jwtAccessExp),
		jwt.WithRefreshExpiration(cfg.jwtRefreshExp),
	)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	videoReadRepo := repositories.NewVideoReadRepository(db)
	videoWriteRepo := repositories.NewVideoWriteRepository(db)
	commentReadRepo := repositories.NewCommentReadRepository(db)
	commentWriteRepo := repositories.NewCommentWriteRepository(db)
	tweetReadRepo := repositories.NewTweetReadRepository(db)
	tweetWriteRepo := repositories.NewTweetWriteRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	subscriptionRepo := repositories.NewSubscriptionRepository(db)
	playlistReadRepo := repositories.NewPlaylistReadRepository(db)
	playlistWriteRepo := repositories.NewPlaylistWriteRepository(db)
	historyRepo := repositories.NewWatchHistoryRepository(db)
	statsCacheRepo := repositories.NewChannelStatsCacheRepository(rdb, cfg.statsCacheTTL)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens, mediaStore, cfg.uploadTimeout)
	userService := services.NewUserService(userReadRepo, userWriteRepo, mediaStore, cfg.uploadTimeout)
	videoService := services.NewVideoService(videoReadRepo, videoWriteRepo, historyRepo, mediaStore, kafkaWriter, cfg.uploadTimeout)
	commentService := services.NewCommentService(commentReadRepo, commentWriteRepo, videoReadRepo)
	tweetService := services.NewTweetService(tweetReadRepo, tweetWriteRepo)
	playlistService := services.NewPlaylistService(playlistReadRepo, playlistWriteRepo, videoReadRepo)
	relationService := services.NewRelationService(likeRepo, subscriptionRepo, userReadRepo, statsCacheRepo, kafkaWriter)
	channelService := services.NewChannelService(userReadRepo, subscriptionRepo, statsCacheRepo, historyRepo)

	// Setup router
	r := newRouter(cfg, db, tokens, userReadRepo,
		authService, userService, videoService, commentService,
		tweetService, playlistService, relationService, channelService)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// newRouter wires every route. All video, comment, like, subscription,
// tweet and playlist routes sit behind the auth gate; only
// registration, login and token refresh are public.
func newRouter(
	cfg *config,
	db *sqlx.DB,
	tokens *jwt.JWT,
	userReadRepo *repositories.UserReadRepository,
	authService *services.AuthService,
	userService *services.UserService,
	videoService *services.VideoService,
	commentService *services.CommentService,
	tweetService *services.TweetService,
	playlistService *services.PlaylistService,
	relationService *services.RelationService,
	channelService *services.ChannelService,
) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	authMiddleware := middlewares.AuthMiddleware(tokens, userReadRepo)
	secure := cfg.secureCookies()

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/user/register", handlers.NewRegisterHandler(authService))
		r.Post("/user/login", handlers.NewLoginHandler(authService, secure))
		r.Post("/user/refresh-token", handlers.NewRefreshHandler(authService, secure))

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/user/logout", handlers.NewLogoutHandler(authService))
			r.Patch("/user/change-password", handlers.NewChangePasswordHandler(authService))
			r.Get("/user/me", handlers.NewCurrentUserHandler(userService))
			r.Patch("/user/account", handlers.NewUpdateAccountHandler(userService))
			r.Patch("/user/avatar", handlers.NewUpdateAvatarHandler(userService))
			r.Patch("/user/cover-image", handlers.NewUpdateCoverImageHandler(userService))
			r.Get("/user/channel/{username}", handlers.NewChannelProfileHandler(channelService))
			r.Get("/user/history", handlers.NewWatchHistoryHandler(channelService))

			r.Get("/videos", handlers.NewListVideosHandler(videoService))
			r.Post("/videos", handlers.NewPublishVideoHandler(videoService))
			r.Get("/videos/{videoId}", handlers.NewGetVideoHandler(videoService))
			r.Patch("/videos/{videoId}", handlers.NewUpdateVideoHandler(videoService))
			r.Delete("/videos/{videoId}", handlers.NewDeleteVideoHandler(videoService))
			r.Patch("/videos/{videoId}/toggle-publish", handlers.NewTogglePublishHandler(videoService))

			r.Get("/comments/{videoId}", handlers.NewListCommentsHandler(commentService))
			r.Post("/comments/{videoId}", handlers.NewAddCommentHandler(commentService))
			r.Patch("/comments/c/{commentId}", handlers.NewUpdateCommentHandler(commentService))
			r.Delete("/comments/c/{commentId}", handlers.NewDeleteCommentHandler(commentService))

			r.Patch("/likes/toggle/v/{videoId}", handlers.NewToggleVideoLikeHandler(relationService))
			r.Patch("/likes/toggle/c/{commentId}", handlers.NewToggleCommentLikeHandler(relationService))
			r.Patch("/likes/toggle/t/{tweetId}", handlers.NewToggleTweetLikeHandler(relationService))
			r.Get("/likes/videos", handlers.NewLikedVideosHandler(relationService))

			r.Patch("/subscriptions/c/{channelId}", handlers.NewToggleSubscriptionHandler(relationService))
			r.Get("/subscriptions/c/{channelId}", handlers.NewSubscribersHandler(channelService))
			r.Get("/subscriptions/u/{subscriberId}", handlers.NewSubscribedChannelsHandler(channelService))

			r.Post("/tweets", handlers.NewCreateTweetHandler(tweetService))
			r.Get("/tweets/user/{userId}", handlers.NewListUserTweetsHandler(tweetService))
			r.Patch("/tweets/{tweetId}", handlers.NewUpdateTweetHandler(tweetService))
			r.Delete("/tweets/{tweetId}", handlers.NewDeleteTweetHandler(tweetService))

			r.Post("/playlists", handlers.NewCreatePlaylistHandler(playlistService))
			r.Get("/playlists/{playlistId}", handlers.NewGetPlaylistHandler(playlistService))
			r.Get("/playlists/user/{userId}", handlers.NewListUserPlaylistsHandler(playlistService))
			r.Patch("/playlists/{playlistId}", handlers.NewUpdatePlaylistHandler(playlistService))
			r.Delete("/playlists/{playlistId}", handlers.NewDeletePlaylistHandler(playlistService))
			r.Post("/playlists/{playlistId}/videos/{videoId}", handlers.NewAddPlaylistVideoHandler(playlistService))
			r.Delete("/playlists/{playlistId}/videos/{videoId}", handlers.NewRemovePlaylistVideoHandler(playlistService))
		})
	})

	r.Get("/healthz", handlers.NewHealthHandler(db))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	return r
}
