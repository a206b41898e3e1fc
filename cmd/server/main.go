package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/queuebeat/backend/config"
	"github.com/queuebeat/backend/internal/announcer"
	"github.com/queuebeat/backend/internal/auth"
	"github.com/queuebeat/backend/internal/cache"
	"github.com/queuebeat/backend/internal/database"
	"github.com/queuebeat/backend/internal/engine"
	"github.com/queuebeat/backend/internal/eventbus"
	"github.com/queuebeat/backend/internal/handlers"
	"github.com/queuebeat/backend/internal/metadata"
	"github.com/queuebeat/backend/internal/middleware"
	"github.com/queuebeat/backend/internal/repository"
	"github.com/queuebeat/backend/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis (optional event relay)
	var redis *cache.RedisClient
	if cfg.Redis.Enabled {
		redis, err = cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
			log.Println("Running without Redis - events will not be relayed to external consumers")
			redis = nil
		} else {
			defer redis.Close()
		}
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	resolver := metadata.NewResolver(nil, cfg.API.OEmbedURL)

	// Initialize store, event bus and queue engine
	store := repository.NewStore(db)
	var relay eventbus.Relay
	if redis != nil {
		relay = redis
	}
	bus := eventbus.New(store, relay)
	eng := engine.New(store, bus)

	// Chat announcer follows every joined channel's event stream, and picks
	// up channels registered while the server runs
	bot := announcer.NewBot(bus, nil)
	eng.SetChannelWatcher(bot)
	joined, err := store.Channels.ListJoined()
	if err != nil {
		log.Printf("Warning: failed to list joined channels: %v", err)
	}
	for _, ch := range joined {
		bot.Watch(ch.ID, ch.Login)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store.Accounts, jwtService)
	channelHandler := handlers.NewChannelHandler(eng, store.Channels, store.Sessions)
	queueHandler := handlers.NewQueueHandler(eng, store.Channels)
	settingsHandler := handlers.NewSettingsHandler(eng, store.Channels)
	playlistHandler := handlers.NewPlaylistHandler(eng, store.Channels, store.Playlists, resolver)
	eventsHandler := handlers.NewEventsHandler(eng, store.Channels, redis)

	// Initialize WebSocket hub for dashboard streams
	hub := websocket.NewHub(bus)
	go hub.Run()
	wsHandler := websocket.NewHandler(hub, jwtService, eng, store.Channels, cfg.CORS.AllowedOrigins)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitRequestsPerSec)
	rateLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// WebSocket endpoint
	router.GET("/ws/:login", wsHandler.HandleWebSocket)

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		// Account routes
		api.GET("/me", authHandler.GetMe)

		// Channel routes
		api.POST("/channels", channelHandler.Register)
		api.GET("/channels/:login", channelHandler.Get)
		api.POST("/channels/:login/archive", channelHandler.Archive)
		api.GET("/channels/:login/sessions", channelHandler.Sessions)
		api.GET("/sessions/:id/history", channelHandler.SessionHistory)

		// Queue routes
		api.GET("/channels/:login/queue", queueHandler.Snapshot)
		api.POST("/channels/:login/queue", middleware.RateLimitMiddleware(rateLimiter), queueHandler.Enqueue)
		api.POST("/channels/:login/queue/played", queueHandler.MarkPlayed)
		api.DELETE("/channels/:login/queue/last", queueHandler.RemoveLast)
		api.POST("/requests/:id/priority", queueHandler.SetPriority)
		api.DELETE("/requests/:id", queueHandler.Remove)

		// Settings routes
		api.GET("/channels/:login/settings", settingsHandler.Get)
		api.PUT("/channels/:login/settings", settingsHandler.Update)
		api.POST("/channels/:login/queue/status", settingsHandler.SetQueueStatus)

		// Playlist routes
		api.GET("/channels/:login/playlists", playlistHandler.List)
		api.POST("/channels/:login/playlists", playlistHandler.Create)
		api.GET("/playlists/:id/items", playlistHandler.Items)
		api.POST("/playlists/:id/items", playlistHandler.AddItem)
		api.POST("/playlists/:id/keywords", playlistHandler.AddKeyword)
		api.POST("/channels/:login/random-request", playlistHandler.RandomRequest)

		// Event stream routes
		api.GET("/channels/:login/events", eventsHandler.Since)
		api.POST("/channels/:login/awards", eventsHandler.Award)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
