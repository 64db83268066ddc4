package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aditya-Vasipalli/buymechai/api"
	"github.com/Aditya-Vasipalli/buymechai/cache"
	"github.com/Aditya-Vasipalli/buymechai/config"
	"github.com/Aditya-Vasipalli/buymechai/db"
	"github.com/Aditya-Vasipalli/buymechai/middleware"
	"github.com/Aditya-Vasipalli/buymechai/services"
	"github.com/Aditya-Vasipalli/buymechai/stores"
	"github.com/Aditya-Vasipalli/buymechai/token"
	"github.com/gorilla/mux"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func printBanner() {
	fmt.Printf("%s%s", colorCyan, colorBold)
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                                                              ║")
	fmt.Println("║  ☕ BuyMeChai Payment Verification Service                   ║")
	fmt.Println("║                                                              ║")
	fmt.Println("║  UPI support payments, verified without a gateway            ║")
	fmt.Println("║                                                              ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("%s", colorReset)
}

func printStep(step, message string) {
	fmt.Printf("%s[%s]%s %s%s%s\n", colorBlue, step, colorReset, colorBold, message, colorReset)
}

func printSuccess(message string) {
	fmt.Printf("%s✓%s %s\n", colorGreen, colorReset, message)
}

func printWarning(message string) {
	fmt.Printf("%s⚠%s %s\n", colorYellow, colorReset, message)
}

func printError(message string) {
	fmt.Printf("%s✗%s %s\n", colorRed, colorReset, message)
}

func printInfo(message string) {
	fmt.Printf("%sℹ%s %s\n", colorCyan, colorReset, message)
}

func main() {
	printBanner()
	fmt.Println()

	printStep("1/8", "Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError(fmt.Sprintf("Configuration validation failed: %v", err))
		os.Exit(1)
	}
	printSuccess("Configuration loaded and validated")

	printStep("2/8", "Connecting to database...")
	gormDB, err := db.Connect(cfg.GetDatabaseURL(), db.ConnectConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.MaxLifetime,
		ConnMaxIdleTime: cfg.Database.MaxIdleTime,
		LogQueries:      cfg.IsDevelopment(),
	})
	if err != nil {
		printError(fmt.Sprintf("Failed to connect to database: %v", err))
		os.Exit(1)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		printError(fmt.Sprintf("Failed to get database instance: %v", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	printSuccess(fmt.Sprintf("Connected to PostgreSQL at %s:%d", cfg.Database.Host, cfg.Database.Port))

	printStep("3/8", "Running migrations...")
	migrator := db.NewMigrator(gormDB)
	if err := migrator.Up(); err != nil {
		printError(fmt.Sprintf("Failed to run migrations: %v", err))
		os.Exit(1)
	}
	statuses, err := migrator.Status()
	if err != nil {
		printError(fmt.Sprintf("Failed to read migration status: %v", err))
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("Database schema up to date (%d migrations applied)", len(statuses)))

	printStep("4/8", "Connecting to Redis...")
	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		printWarning(fmt.Sprintf("Failed to connect to Redis: %v (continuing without cache)", err))
		redisCache = nil
	} else {
		defer redisCache.Close()
		printSuccess(fmt.Sprintf("Connected to Redis at %s:%d", cfg.Redis.Host, cfg.Redis.Port))
	}

	printStep("5/8", "Initializing stores...")
	intentStore := stores.NewIntentStore(gormDB)
	transactionStore := stores.NewTransactionStore(gormDB)
	goalStore := stores.NewFundingGoalStore(gormDB)
	creatorStore := stores.NewCreatorStore(gormDB)
	printSuccess("Stores initialized")

	printStep("6/8", "Initializing services...")
	tokenForm := token.ShortForm
	if cfg.Payment.TokenForm == "long" {
		tokenForm = token.LongForm
	}
	tokens := token.NewGenerator(tokenForm)

	intentService := services.NewIntentService(intentStore, creatorStore, tokens, cfg.Payment.IntentTTL)
	projector := services.NewLedgerProjector(goalStore)
	verificationService := services.NewVerificationService(intentStore, transactionStore, projector)
	creatorService := services.NewCreatorService(creatorStore, goalStore, transactionStore, redisCache)

	sweeper := services.NewSweeper(intentStore, cfg.Payment.SweepInterval, cfg.Payment.SweepRetention)
	sweeper.Start()
	defer sweeper.Stop()
	printSuccess("Services initialized")

	printStep("7/8", "Setting up HTTP server...")
	paymentHandler := api.NewPaymentHandler(intentService, verificationService)
	creatorHandler := api.NewCreatorHandler(creatorService, intentService)
	healthHandler := api.NewHealthHandler(gormDB, redisCache)

	router := mux.NewRouter()

	router.Use(middleware.LoggingMiddleware)
	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	router.Use(middleware.CORSMiddleware(allowedOrigins))
	router.Use(middleware.RecoveryMiddleware)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	apiRouter.HandleFunc("/health", healthHandler.HandleHealth).Methods("GET")

	apiRouter.HandleFunc("/payments/intents", paymentHandler.HandleCreateIntent).Methods("POST")
	apiRouter.HandleFunc("/payments/code", paymentHandler.HandlePaymentCode).Methods("GET")

	// Verification guesses are what an enumeration attack would spend,
	// so only this route sits behind the per-IP limiter.
	var rateLimiter *middleware.RateLimiter
	verifyRoute := apiRouter.NewRoute().Subrouter()
	if cfg.Security.RateLimitEnabled {
		rateLimiter = middleware.NewRateLimiter(cfg.Security.RateLimitRPS, cfg.Security.RateLimitBurst)
		verifyRoute.Use(rateLimiter.Middleware)
	}
	verifyRoute.HandleFunc("/payments/verify", paymentHandler.HandleVerify).Methods("POST")

	apiRouter.HandleFunc("/creators/{username}", creatorHandler.HandleGetPage).Methods("GET")
	apiRouter.HandleFunc("/creators/{id}/goals", creatorHandler.HandleGoals).Methods("GET", "POST")
	apiRouter.HandleFunc("/creators/{id}/transactions", creatorHandler.HandleTransactions).Methods("GET")

	debugRouter := router.PathPrefix("/debug").Subrouter()
	debugRouter.HandleFunc("/creators/{id}/intents", creatorHandler.HandleListIntents).Methods("GET")

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	printSuccess("HTTP server configured")

	printStep("8/8", "Starting...")
	fmt.Println()
	fmt.Printf("%s%s☕ BuyMeChai is ready!%s\n", colorGreen, colorBold, colorReset)
	fmt.Println()
	fmt.Printf("%s%sAPI Endpoints:%s\n", colorPurple, colorBold, colorReset)
	fmt.Printf("  %s•%s Health:        %shttp://localhost:%s/api/v1/health%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Create intent: %shttp://localhost:%s/api/v1/payments/intents%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Verify:        %shttp://localhost:%s/api/v1/payments/verify%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Printf("  %s•%s Creator pages: %shttp://localhost:%s/api/v1/creators/{username}%s\n", colorCyan, colorReset, colorYellow, cfg.Server.Port, colorReset)
	fmt.Println()
	fmt.Printf("%s%sEnvironment:%s %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Environment, colorReset)
	fmt.Printf("%s%sToken form:%s  %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Payment.TokenForm, colorReset)
	fmt.Printf("%s%sIntent TTL:%s  %s%s%s\n", colorPurple, colorBold, colorReset, colorYellow, cfg.Payment.IntentTTL, colorReset)
	fmt.Println()
	fmt.Printf("%s%sPress Ctrl+C to stop the server%s\n", colorYellow, colorBold, colorReset)
	fmt.Println()

	go func() {
		printInfo(fmt.Sprintf("Starting HTTP server on port %s...", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			printError(fmt.Sprintf("Server failed to start: %v", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println()
	printWarning("Shutting down BuyMeChai server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		printError(fmt.Sprintf("Server forced to shutdown: %v", err))
		os.Exit(1)
	}

	if rateLimiter != nil {
		rateLimiter.Close()
	}

	printSuccess("BuyMeChai server stopped gracefully")
}
