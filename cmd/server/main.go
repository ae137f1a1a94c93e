package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"promptforge/internal/config"
	"promptforge/internal/database"
	"promptforge/internal/handlers"
	"promptforge/internal/jobs"
	"promptforge/internal/llm"
	"promptforge/internal/logging"
	"promptforge/internal/middleware"
	"promptforge/internal/services"
	"promptforge/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting PromptForge Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s)", cfg.Port)

	// Initialize MongoDB (required - optimizers, users, and usage logs live here)
	log.Println("🔗 Connecting to MongoDB...")
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())
	log.Println("✅ MongoDB connected successfully")

	if err := mongoDB.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️ Failed to ensure indexes: %v", err)
	}

	// Initialize Redis (optional - usage counters degrade to Mongo-only)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Invalid REDIS_URL: %v (usage counters disabled)", err)
		} else {
			redisClient = redis.NewClient(opts)
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(pingCtx).Err(); err != nil {
				log.Printf("⚠️ Failed to connect to Redis: %v (usage counters disabled)", err)
				redisClient = nil
			} else {
				log.Println("✅ Redis connected successfully")
			}
			cancel()
		}
	} else {
		log.Println("⚠️ REDIS_URL not set - usage counters disabled")
	}

	// Load provider credentials from providers.json
	providersConfig, err := config.LoadProviders(cfg.ProvidersFile)
	if err != nil {
		log.Fatalf("❌ Failed to load providers config: %v", err)
	}

	facadeEntry := providersConfig.Find("facade")
	if facadeEntry == nil {
		log.Fatal("❌ providers.json must contain an enabled \"facade\" entry")
	}
	facadeClient := llm.NewFacadeClient(facadeEntry.BaseURL, facadeEntry.APIKey)
	log.Printf("✅ Generation gateway configured (%s)", facadeEntry.BaseURL)

	var openaiClient *llm.OpenAIClient
	var fallback services.FallbackBackend
	if openaiEntry := providersConfig.Find("openai"); openaiEntry != nil {
		openaiClient = llm.NewOpenAIClient(openaiEntry.BaseURL, openaiEntry.APIKey)
		fallback = openaiClient
		log.Println("✅ OpenAI fallback configured")
	} else {
		log.Println("⚠️ No enabled \"openai\" provider entry - fallback disabled")
	}

	// Watch providers.json for credential changes
	go watchProvidersFile(cfg.ProvidersFile, facadeClient, openaiClient)

	// Initialize JWT auth (nil means dev bypass, middleware refuses that in production)
	var jwtAuth *auth.LocalJWTAuth
	if cfg.JWTSecret != "" {
		jwtAuth, err = auth.NewLocalJWTAuth(cfg.JWTSecret, 15*time.Minute, 7*24*time.Hour)
		if err != nil {
			log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
		}
		log.Println("✅ JWT auth initialized")
	} else {
		log.Println("⚠️ JWT_SECRET not set - auth disabled (development mode only)")
	}

	// Initialize Prometheus metrics
	services.InitMetrics()

	// Initialize services
	userService := services.NewUserService(mongoDB, cfg.DefaultUserPassword)
	optimizerService := services.NewOptimizerService(mongoDB)
	usageService := services.NewUsageService(redisClient, mongoDB)
	chatHistoryService := services.NewChatHistoryService(mongoDB)
	generationService := services.NewGenerationService(facadeClient, fallback, usageService)
	log.Println("✅ Services initialized")

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PromptForge v1.0",
		ReadTimeout:  180 * time.Second, // provider calls can take up to 2 minutes
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  180 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // 10MB for requests carrying attachment text
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	prometheus := fiberprometheus.New("promptforge")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Per-client rate limit on the generation endpoint. Keyed by user when
	// authenticated so NAT'd users don't share a bucket.
	generateLimiter := limiter.New(limiter.Config{
		Max:        cfg.GenerateRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID := middleware.UserID(c); userID != "" {
				return userID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please slow down.",
			})
		},
	})

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(userService, jwtAuth)
	generateHandler := handlers.NewGenerateHandler(generationService, chatHistoryService)
	optimizerHandler := handlers.NewOptimizerHandler(optimizerService)
	userHandler := handlers.NewUserHandler(userService)
	usageHandler := handlers.NewUsageHandler(usageService)
	chatHandler := handlers.NewChatHandler(chatHistoryService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")

	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/refresh", authHandler.Refresh)

	// Generation works for anonymous callers too, usage just goes unrecorded
	api.Post("/generate-optimized-content",
		middleware.OptionalLocalAuthMiddleware(jwtAuth),
		generateLimiter,
		generateHandler.Generate)

	api.Get("/optimizers", middleware.OptionalLocalAuthMiddleware(jwtAuth), optimizerHandler.List)
	api.Get("/optimizers/:id", middleware.LocalAuthMiddleware(jwtAuth), optimizerHandler.Get)

	adminOnly := []fiber.Handler{middleware.LocalAuthMiddleware(jwtAuth), middleware.AdminMiddleware(cfg)}

	api.Post("/optimizers", append(adminOnly, optimizerHandler.Create)...)
	api.Put("/optimizers/:id", append(adminOnly, optimizerHandler.Update)...)
	api.Delete("/optimizers/:id", append(adminOnly, optimizerHandler.Delete)...)

	api.Get("/users", append(adminOnly, userHandler.List)...)
	api.Post("/users", append(adminOnly, userHandler.Create)...)
	api.Put("/users", append(adminOnly, userHandler.Update)...)
	api.Delete("/users", append(adminOnly, userHandler.Delete)...)

	api.Get("/usage-ranking", append(adminOnly, usageHandler.Ranking)...)
	api.Get("/usage-report", append(adminOnly, usageHandler.Report)...)

	api.Get("/chat-history", middleware.LocalAuthMiddleware(jwtAuth), chatHandler.History)
	api.Post("/clear-chat", middleware.LocalAuthMiddleware(jwtAuth), chatHandler.Clear)

	// Background jobs
	jobScheduler, err := jobs.NewScheduler()
	if err != nil {
		log.Printf("⚠️ Failed to initialize job scheduler: %v", err)
	} else {
		rollupJob := jobs.NewUsageRollupJob(userService, usageService)
		// Daily at 3 AM UTC
		if err := jobScheduler.Register("usage_rollup", "0 3 * * *", rollupJob); err != nil {
			log.Printf("⚠️ Failed to register usage rollup job: %v", err)
		}
		jobScheduler.Start()
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if jobScheduler != nil {
			if err := jobScheduler.Stop(); err != nil {
				log.Printf("⚠️ Error stopping job scheduler: %v", err)
			}
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Printf("⚠️ Error closing Redis: %v", err)
			}
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("✅ Server ready on port %s", cfg.Port)
	log.Printf("📡 Health check: http://localhost:%s/health", cfg.Port)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// watchProvidersFile watches providers.json for changes and swaps client
// credentials in place, so key rotation doesn't require a restart
func watchProvidersFile(filePath string, facadeClient *llm.FacadeClient, openaiClient *llm.OpenAIClient) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create file watcher: %v", err)
		return
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		log.Printf("⚠️  Failed to get absolute path for %s: %v", filePath, err)
		watcher.Close()
		return
	}

	// Watch the directory containing the file (more reliable than watching the file directly)
	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		watcher.Close()
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", filePath)

	// Debounce to avoid multiple reloads for rapid file changes
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					log.Printf("🔄 Detected changes in %s, reloading provider credentials...", filePath)

					providersConfig, err := config.LoadProviders(filePath)
					if err != nil {
						log.Printf("❌ Failed to reload providers config: %v", err)
						return
					}

					if entry := providersConfig.Find("facade"); entry != nil {
						facadeClient.UpdateCredentials(entry.BaseURL, entry.APIKey)
						log.Println("✅ Gateway credentials updated")
					}
					if openaiClient != nil {
						if entry := providersConfig.Find("openai"); entry != nil {
							openaiClient.UpdateCredentials(entry.BaseURL, entry.APIKey)
							log.Println("✅ OpenAI fallback credentials updated")
						}
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  File watcher error: %v", err)
		}
	}
}
