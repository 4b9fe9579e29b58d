package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/todoiti/todoiti/internal/config"     // Internal config loader
	"github.com/todoiti/todoiti/internal/database"   // MySQL connection pool
	"github.com/todoiti/todoiti/internal/handler"    // HTTP handlers
	"github.com/todoiti/todoiti/internal/middleware" // Rate limiting and cache middleware
	"github.com/todoiti/todoiti/internal/queue"      // Activity log consumer
	"github.com/todoiti/todoiti/internal/realtime"   // WebSocket fan-out hub
	"github.com/todoiti/todoiti/internal/repository" // Data access layer
	"github.com/todoiti/todoiti/internal/router"     // Internal router setup
)

func main() {
	// Load a .env file if one is present; in production the variables come
	// from the real environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: when it is unreachable the limiter and the invite
	// preview cache degrade to pass-through middleware.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	lists := repository.NewTaskListRepo(db)
	tasks := repository.NewTaskRepo(db)
	access := repository.NewAccessRepo(db)
	invites := repository.NewInviteRepo(db)

	hub := realtime.NewHub()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	listH := handler.NewTaskListHandler(lists, tasks, access, hub)
	taskH := handler.NewTaskHandler(tasks, hub)
	inviteH := handler.NewInviteHandler(cfg, invites)
	wsH := handler.NewWSHandler(cfg, access, hub)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New() // Create Echo instance

	router.RegisterRoutes(e) // Register application routes
	router.RegisterAuth(e, authH, cfg.JWTAccessSecret, limiter)
	router.RegisterTaskLists(e, listH, access, cfg.JWTAccessSecret)
	router.RegisterTasks(e, taskH, access, cfg.JWTAccessSecret)
	router.RegisterInvites(e, inviteH, access, cfg.JWTAccessSecret, cache)
	router.RegisterRealtime(e, wsH)

	// Consume task activity events in the background.  The consumer keeps
	// retrying RabbitMQ with backoff, so a broker outage never blocks the API.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
