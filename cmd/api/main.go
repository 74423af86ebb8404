package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/strivehq/strive-engine/internal/adapters/advice"
	"github.com/strivehq/strive-engine/internal/adapters/cache"
	adapterHTTP "github.com/strivehq/strive-engine/internal/adapters/handler/http"
	"github.com/strivehq/strive-engine/internal/adapters/repository"
	"github.com/strivehq/strive-engine/internal/core/domain"
	"github.com/strivehq/strive-engine/internal/core/services"
	"github.com/strivehq/strive-engine/internal/core/workers"

	_ "github.com/strivehq/strive-engine/docs"
)

func main() {
	startTime := time.Now()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}

	serverPort := os.Getenv("PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("Critical: JWT_SECRET must be set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "strive-engine"
	}

	tokenTTL := 24 * time.Hour
	if raw := os.Getenv("TOKEN_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			log.Fatalf("Critical: invalid TOKEN_TTL_HOURS: %q", raw)
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	var redisClient *redis.Client
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		redisPort := os.Getenv("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}

		redisDB := 0
		if raw := os.Getenv("REDIS_DB"); raw != "" {
			redisDB, err = strconv.Atoi(raw)
			if err != nil {
				log.Fatalf("Critical: invalid REDIS_DB: %q", raw)
			}
		}

		redisClient, err = cache.NewRedisClient(redisHost, redisPort, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, running without cache and rate limiting: %v", err)
			redisClient = nil
		} else {
			log.Println("Redis connected successfully.")
		}
	} else {
		log.Println("REDIS_HOST not set, running without cache and rate limiting.")
	}

	userRepo := repository.NewPostgresUserRepository(db.DB)
	taskRepo := repository.NewPostgresTaskRepository(db)
	milestoneRepo := repository.NewPostgresMilestoneRepository(db)
	challengeRepo := repository.NewPostgresChallengeRepository(db)
	bossRepo := repository.NewPostgresBossRepository(db)
	powerUpRepo := repository.NewPostgresPowerUpRepository(db)
	pactRepo := repository.NewPostgresPactRepository(db)

	var goalRepo domain.GoalRepository = repository.NewPostgresGoalRepository(db)
	if redisClient != nil {
		goalRepo = repository.NewCachedGoalRepository(goalRepo, redisClient)
	}

	rewardWorker := workers.NewRewardWorker(challengeRepo, bossRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go rewardWorker.Start(workerCtx)

	var adviceClient services.AdviceClient
	if gemini := advice.NewGeminiClient(os.Getenv("GEMINI_API_URL"), os.Getenv("GEMINI_API_KEY")); gemini != nil {
		adviceClient = gemini
	} else {
		log.Println("Gemini not configured, task advice falls back to built-in heuristics.")
	}

	tokenService := services.NewTokenService(jwtSecret, jwtIssuer, tokenTTL, userRepo)
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, rewardWorker)
	goalService := services.NewGoalService(goalRepo, milestoneRepo, rewardWorker)
	arenaService := services.NewArenaService(challengeRepo, bossRepo, powerUpRepo, goalRepo)
	pactService := services.NewPactService(pactRepo, userRepo)
	adviceService := services.NewAdviceService(taskRepo, adviceClient)
	statsService := services.NewStatsService(taskRepo, goalRepo, bossRepo, challengeRepo)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:  adapterHTTP.NewAuthHandler(authService, tokenService),
		TaskHandler:  adapterHTTP.NewTaskHandler(taskService, adviceService),
		GoalHandler:  adapterHTTP.NewGoalHandler(goalService),
		ArenaHandler: adapterHTTP.NewArenaHandler(arenaService),
		PactHandler:  adapterHTTP.NewPactHandler(pactService),
		StatsHandler: adapterHTTP.NewStatsHandler(statsService),
		TokenService: tokenService,
		DB:           db,
		Redis:        redisClient,
		StartTime:    startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Strive Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
