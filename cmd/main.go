package main

import (
	"context"
	"fmt"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"quizzbuzz/internal/config"
	quizdb "quizzbuzz/internal/database/mongo"
	"quizzbuzz/internal/event"
	"quizzbuzz/internal/handlers"
	"quizzbuzz/internal/logger"
	"quizzbuzz/internal/middleware"
	"quizzbuzz/internal/repository"
	"quizzbuzz/internal/service"
	"quizzbuzz/pkg/discovery"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to load configuration", zap.Error(err))
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		zap.Must(zap.NewProduction()).Fatal("failed to initialize logger", zap.Error(err))
	}
	log := logger.Get()
	defer logger.Sync()

	if envErr != nil {
		log.Info("no .env file found, using system env")
	}

	client, err := quizdb.Connect(quizdb.MongoConfig{
		URI:            cfg.MongoDB.URI,
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
	})
	if err != nil {
		log.Fatal("failed to build MongoDB client", zap.Error(err))
	}
	defer quizdb.Disconnect(client, log)
	_ = quizdb.Ping(context.Background(), client, log)

	quizRepo := repository.NewQuizRepository(quizdb.Database(client), log)
	if cfg.MongoDB.EnsureIndexes {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := quizRepo.InitializeIndexes(ctx); err != nil {
			log.Warn("failed to initialize quiz indexes, search may be unavailable", zap.Error(err))
		}
		cancel()
	}

	var publisher event.Publisher
	eventPublisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, log)
	if err != nil {
		log.Warn("failed to initialize event publisher, quiz events will not be published", zap.Error(err))
	} else {
		publisher = eventPublisher
		defer func() {
			if err := eventPublisher.Close(); err != nil {
				log.Error("error closing event publisher", zap.Error(err))
			}
		}()
	}

	quizService := service.NewQuizService(quizRepo, publisher, log)

	protected := []fiber.Handler{middleware.RequireUser()}
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		limiter := middleware.NewRateLimiter(redisClient, cfg.Redis.RateLimit, cfg.Redis.RateWindow, log)
		protected = append(protected, limiter.Handler())
	} else {
		log.Info("Redis not configured, write routes are not rate limited")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	origins := cfg.Server.AllowOrigins
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Accept", "Origin", "Cache-Control", "X-Requested-With", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Quiz Service is healthy")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	quizHandler := handlers.NewQuizHandler(quizService, cfg.Server.RequestTimeout, log)
	quizHandler.RegisterRoutes(app, protected...)

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg.Consul, cfg.Server, log)
		if err != nil {
			log.Warn("service discovery init failed", zap.Error(err))
		} else if err := registry.Register(); err != nil {
			log.Warn("service registration failed", zap.Error(err))
			registry = nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Info("starting server", zap.String("address", addr))
		return app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
	}

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			log.Error("error deregistering from service discovery", zap.Error(err))
		}
	}

	log.Info("server shutdown complete")
}
