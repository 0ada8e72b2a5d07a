package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mkravets/kiosk/api"
	"github.com/mkravets/kiosk/auth"
	"github.com/mkravets/kiosk/datastore"
	rh "github.com/mkravets/kiosk/route-handlers"
	"github.com/mkravets/kiosk/scheduler"
)

const (
	defaultPort        = "8080"
	defaultDriver      = "postgres"
	defaultDatabaseURL = "user=postgres password=password dbname=kiosk host=localhost port=5432 sslmode=disable"
	defaultTokenTTL    = 24 * time.Hour
	shutdownTimeout    = 15 * time.Second
)

type config struct {
	port        string
	dbDriver    string
	databaseURL string
	jwtSecret   string
	tokenTTL    time.Duration
}

func main() {
	cfg := loadConfig()

	db, err := datastore.Open(cfg.dbDriver, cfg.databaseURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()
	log.Println("Database connection successful")

	userRepo := datastore.NewUserRepository(db)
	categoryRepo := datastore.NewCategoryRepository(db)
	issueRepo := datastore.NewIssueRepository(db)
	articleRepo := datastore.NewArticleRepository(db)
	savedArticleRepo := datastore.NewSavedArticleRepository(db)
	subscriptionRepo := datastore.NewSubscriptionRepository(db)
	pollRepo := datastore.NewPollRepository(db)

	tokenService := auth.NewTokenService(cfg.jwtSecret, cfg.tokenTTL)

	authHandler := rh.NewAuthHandler(userRepo, tokenService)
	articleHandler := rh.NewArticleHandler(articleRepo, categoryRepo, subscriptionRepo)
	pollHandler := rh.NewPollHandler(pollRepo)
	profileHandler := rh.NewProfileHandler(userRepo, savedArticleRepo, subscriptionRepo)
	subscriptionHandler := rh.NewSubscriptionHandler(subscriptionRepo)
	adminHandler := rh.NewAdminHandler(userRepo, articleRepo, categoryRepo, issueRepo)

	apiRouter := api.SetupRoutes(
		tokenService,
		authHandler,
		articleHandler,
		pollHandler,
		profileHandler,
		subscriptionHandler,
		adminHandler,
	)

	// Expiry sweep, tick-driven over HTTP
	expirySweeper := scheduler.New(subscriptionRepo)

	mainRouter := chi.NewRouter()
	mainRouter.Mount("/", apiRouter)
	mainRouter.Post("/scheduler/tick", expirySweeper.HandleTick)

	startServer(cfg.port, mainRouter)
}

func loadConfig() config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = defaultDriver
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		dbURL = defaultDatabaseURL
		log.Println("WARNING: DB_CONNECTION_STRING not set, using default local connection string.")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-do-not-use-in-production"
		log.Println("WARNING: JWT_SECRET not set, using insecure development secret.")
	}

	tokenTTL := defaultTokenTTL
	if rawTTL := os.Getenv("TOKEN_TTL_HOURS"); rawTTL != "" {
		hours, err := strconv.Atoi(rawTTL)
		if err != nil || hours <= 0 {
			log.Printf("WARNING: invalid TOKEN_TTL_HOURS %q, using default.", rawTTL)
		} else {
			tokenTTL = time.Duration(hours) * time.Hour
		}
	}

	return config{
		port:        port,
		dbDriver:    driver,
		databaseURL: dbURL,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
	}
}

func startServer(port string, router http.Handler) {
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server gracefully stopped")
}
