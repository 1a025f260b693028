/**
 * @description
 * This is the main entry point for the planner-service. It is responsible for
 * initializing all components of the service, including configuration, the
 * database connection, the Redis plan cache, the RabbitMQ event producer, the
 * cron scheduler, the core application service, and the HTTP server. It wires
 * everything together and starts the service.
 *
 * @dependencies
 * - log, net/http: Standard Go libraries for logging and HTTP server functionality.
 * - github.com/go-chi/chi/v5: For HTTP routing.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/redis/go-redis/v9: Redis client for the plan cache.
 * - internal/api, internal/app, internal/config, internal/engine, internal/store: Internal packages.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/autopayplan/planner-service/internal/api"
	"github.com/autopayplan/planner-service/internal/app"
	"github.com/autopayplan/planner-service/internal/config"
	"github.com/autopayplan/planner-service/internal/engine"
	"github.com/autopayplan/planner-service/internal/store"
	"github.com/autopayplan/planner-service/pkg/rabbitmq"
)

func main() {
	// Load an optional .env file before viper reads the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	log.Printf("level=info component=bootstrap msg=\"starting planner-service\" port=%s", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database url parse failed\" err=%v", err)
	}

	poolConfig.MaxConns = 100
	poolConfig.MinConns = 20
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	// Disable prepared statement caching to prevent conflicts
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"database connection failed\" err=%v", err)
	}
	defer dbpool.Close()
	log.Println("level=info component=bootstrap msg=\"database connected\"")

	// Initialize the Redis plan cache. A missing or unreachable Redis only
	// disables caching; every calculation still works.
	var planCache app.PlanCache
	if strings.TrimSpace(cfg.RedisURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"redis url missing; plan caching disabled\" env=REDIS_URL")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"redis url parse failed; plan caching disabled\" err=%v", parseErr)
		} else {
			redisClient := redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelPing()
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				log.Printf("level=warn component=bootstrap msg=\"redis ping failed; plan caching disabled\" err=%v", pingErr)
				redisClient.Close()
			} else {
				defer redisClient.Close()
				planCache = app.NewRedisPlanCache(redisClient, cfg.RedisPlanCachePrefix,
					time.Duration(cfg.PlanCacheTTLMinutes)*time.Minute)
				log.Println("level=info component=bootstrap msg=\"redis connected\"")
			}
		}
	}

	// Initialize the RabbitMQ producer to publish planner events.
	var eventProducer rabbitmq.Publisher
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		log.Println("level=warn component=bootstrap msg=\"rabbitmq url missing; using fallback publisher\" env=RABBITMQ_URL")
		eventProducer = &rabbitmq.EventProducerFallback{}
	} else {
		producer, prodErr := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if prodErr != nil {
			log.Printf("level=warn component=bootstrap msg=\"rabbitmq producer unavailable; using fallback\" err=%v", prodErr)
			eventProducer = &rabbitmq.EventProducerFallback{}
		} else {
			defer producer.Close()
			eventProducer = producer
			log.Println("level=info component=bootstrap msg=\"rabbitmq producer connected\"")
		}
	}

	// Initialize the data access layer (repository).
	repository := store.NewPostgresRepository(dbpool)

	// Build the injectable planning policies from configuration.
	minPolicy := engine.MinimumPaymentPolicy{
		FloorPercent: cfg.MinPaymentFloorPercent,
		FixedFloor:   cfg.MinPaymentFixedFloor,
	}
	emergency := engine.MilestoneSchedule{
		Steps: []engine.MilestoneStep{{
			ByMonth:          cfg.EmergencyFirstStepMonth,
			MonthsOfExpenses: cfg.EmergencyFirstStepMonthsOfEx,
		}},
		TargetMonths: cfg.EmergencyFundTargetMonths,
	}

	// Initialize the core application service with its dependencies.
	plannerService := app.NewService(
		repository,
		planCache,
		eventProducer,
		minPolicy,
		emergency,
		cfg.ProjectionHorizonMonths,
		cfg.CalendarHorizonMonths,
	)

	// Start the cron scheduler for the nightly plan refresh.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	scheduler := app.NewScheduler(app.NewJobs(plannerService, slogger), slogger, cfg.CalendarRefreshSchedule)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize the API handlers and set up the HTTP router.
	plannerHandlers := api.NewPlannerHandlers(plannerService)
	router := chi.NewRouter()
	router.Mount("/planner", api.PlannerRoutes(plannerHandlers, cfg.InternalAPIKey, cfg.CORSAllowedOrigins))

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("level=info component=http msg=\"server listening\" addr=%s", serverAddr)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("level=fatal component=http msg=\"server stopped unexpectedly\" err=%v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("level=info component=http msg=\"shutdown started\"")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("level=error component=http msg=\"shutdown failed\" err=%v", err)
	}

	log.Println("level=info component=http msg=\"shutdown complete\"")
}
