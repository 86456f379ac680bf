package main

import (
	"fmt"
	"log"
	"mindwell-api/internal/api/handlers"
	"mindwell-api/internal/config"
	"mindwell-api/internal/middleware"
	"mindwell-api/internal/models"
	"mindwell-api/internal/repository"
	"mindwell-api/internal/services"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/stripe/stripe-go/v72"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	// Initialize database connection
	db, err := initDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Get underlying *sql.DB instance for connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get underlying *sql.DB instance:", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	usageRepo := repository.NewUsageRecordRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	dailyListRepo := repository.NewDailyListRepository(db)
	meditationRepo := repository.NewMeditationRepository(db)
	matrixRepo := repository.NewDecisionMatrixRepository(db)
	requestLogRepo := repository.NewRequestLogRepository(db)

	// Initialize services
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	cacheConfig := config.NewCacheConfig()
	var cacheService services.CacheService
	if redisCache, err := services.NewRedisCacheService(cacheConfig); err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
	} else {
		cacheService = redisCache
	}

	featureLimits := config.NewFeatureLimitConfig()

	authService := services.NewAuthService(userRepo, subscriptionRepo, jwtSecret)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, cacheService, cacheConfig)
	usageService := services.NewUsageService(usageRepo, featureLimits)
	journalService := services.NewJournalService(journalRepo)
	goalService := services.NewGoalService(goalRepo)
	dailyListService := services.NewDailyListService(dailyListRepo)
	meditationService := services.NewMeditationService(meditationRepo)
	matrixService := services.NewDecisionMatrixService(matrixRepo)
	requestLogService := services.NewRequestLogService(requestLogRepo)
	aiService := services.NewAIService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	journalHandler := handlers.NewJournalHandler(journalService)
	goalHandler := handlers.NewGoalHandler(goalService)
	dailyListHandler := handlers.NewDailyListHandler(dailyListService)
	meditationHandler := handlers.NewMeditationHandler(meditationService)
	matrixHandler := handlers.NewDecisionMatrixHandler(matrixService)
	aiHandler := handlers.NewAIHandler(aiService, usageService, subscriptionService, journalService, meditationService, cacheService)
	usageHandler := handlers.NewUsageHandler(usageService, subscriptionService)
	stripeHandler := handlers.NewStripeHandler(authService, subscriptionRepo, userRepo, cacheService)

	// Initialize middleware
	usageGate := middleware.NewUsageGate(usageService, subscriptionService)
	requestLogger := middleware.NewRequestLogger(requestLogService)

	// Initialize router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/auth/register/email", authHandler.RegisterWithEmail).Methods("POST")
	router.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/webhooks/stripe", stripeHandler.HandleStripeWebhook).Methods("POST")
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// API routes (protected)
	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.AuthMiddleware(authService))
	apiRouter.Use(requestLogger.LogRequest)

	// Profile and billing
	apiRouter.HandleFunc("/me", authHandler.Me).Methods("GET")
	apiRouter.HandleFunc("/me", authHandler.UpdateProfile).Methods("PATCH")
	apiRouter.HandleFunc("/usage", usageHandler.GetUsage).Methods("GET")
	apiRouter.HandleFunc("/billing/checkout", stripeHandler.HandleCreateCheckout).Methods("POST")
	apiRouter.HandleFunc("/billing/portal", stripeHandler.HandleBillingPortal).Methods("POST")

	// Journal
	apiRouter.HandleFunc("/journal", journalHandler.CreateEntry).Methods("POST")
	apiRouter.HandleFunc("/journal", journalHandler.ListEntries).Methods("GET")
	apiRouter.HandleFunc("/journal/{id}", journalHandler.GetEntry).Methods("GET")
	apiRouter.HandleFunc("/journal/{id}", journalHandler.UpdateEntry).Methods("PUT")
	apiRouter.HandleFunc("/journal/{id}", journalHandler.DeleteEntry).Methods("DELETE")

	// Goals
	apiRouter.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	apiRouter.HandleFunc("/goals", goalHandler.ListGoals).Methods("GET")
	apiRouter.HandleFunc("/goals/{id}", goalHandler.GetGoal).Methods("GET")
	apiRouter.HandleFunc("/goals/{id}", goalHandler.UpdateGoal).Methods("PUT")
	apiRouter.HandleFunc("/goals/{id}/achieve", goalHandler.MarkAchieved).Methods("POST")
	apiRouter.HandleFunc("/goals/{id}", goalHandler.DeleteGoal).Methods("DELETE")

	// Daily worry/gratitude lists
	apiRouter.HandleFunc("/lists/{kind}", dailyListHandler.AddItem).Methods("POST")
	apiRouter.HandleFunc("/lists/{kind}", dailyListHandler.ListItems).Methods("GET")
	apiRouter.HandleFunc("/lists/items/{id}", dailyListHandler.ResolveItem).Methods("PATCH")
	apiRouter.HandleFunc("/lists/items/{id}", dailyListHandler.DeleteItem).Methods("DELETE")

	// Meditations
	apiRouter.HandleFunc("/meditations", meditationHandler.ListLibrary).Methods("GET")
	apiRouter.HandleFunc("/meditations/custom", meditationHandler.ListCustom).Methods("GET")
	apiRouter.HandleFunc("/meditations/{id}", meditationHandler.GetMeditation).Methods("GET")
	apiRouter.HandleFunc("/meditations/{id}", meditationHandler.DeleteCustom).Methods("DELETE")

	// Decision matrices
	apiRouter.HandleFunc("/matrices", matrixHandler.CreateMatrix).Methods("POST")
	apiRouter.HandleFunc("/matrices", matrixHandler.ListMatrices).Methods("GET")
	apiRouter.HandleFunc("/matrices/{id}", matrixHandler.GetMatrix).Methods("GET")
	apiRouter.HandleFunc("/matrices/{id}", matrixHandler.UpdateMatrix).Methods("PUT")
	apiRouter.HandleFunc("/matrices/{id}", matrixHandler.DeleteMatrix).Methods("DELETE")

	// Gated AI flows: subscription check first, then the window quota
	aiRouter := apiRouter.PathPrefix("/ai").Subrouter()
	aiRouter.Handle("/concern-chat", usageGate.Gate(models.FeatureConcernChat)(http.HandlerFunc(aiHandler.ConcernChat))).Methods("POST")
	aiRouter.Handle("/journal-analysis", usageGate.Gate(models.FeatureJournalAnalysis)(http.HandlerFunc(aiHandler.JournalAnalysis))).Methods("POST")
	aiRouter.Handle("/meditation", usageGate.Gate(models.FeatureCustomMeditation)(http.HandlerFunc(aiHandler.CustomMeditation))).Methods("POST")
	aiRouter.Handle("/quote", usageGate.Gate(models.FeatureCustomQuote)(http.HandlerFunc(aiHandler.CustomQuote))).Methods("POST")

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{os.Getenv("APP_URL")},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + getPort(),
		WriteTimeout: 90 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	// Start server
	log.Printf("Server starting on port %s...", getPort())
	log.Fatal(srv.ListenAndServe())
}

func initDB() (*gorm.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Configure GORM logger
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	// Open connection
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("error migrating database: %v", err)
	}

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.UsageRecord{},
		&models.JournalEntry{},
		&models.Goal{},
		&models.DailyListItem{},
		&models.Meditation{},
		&models.DecisionMatrix{},
		&models.RequestLog{},
	)
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}
	return port
}
