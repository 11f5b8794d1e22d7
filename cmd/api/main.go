package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"daybook/internal/calendar"
	"daybook/internal/calendar/google"
	"daybook/internal/calendar/ics"
	"daybook/internal/config"
	"daybook/internal/database"
	apperrors "daybook/internal/errors"
	"daybook/internal/handlers"
	"daybook/internal/logger"
	"daybook/internal/middleware"
	"daybook/internal/models"
	"daybook/internal/scheduler"
	"daybook/internal/secretstore"
	"daybook/internal/services"
	"daybook/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "daybook/internal/docs" // Import swagger docs
)

// @title           Daybook API
// @version         1.0
// @description     Daybook is a personal organization service: calendar with external sync, habits, journal, budget, recipes, and a password vault.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager and run migrations
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	// Secret stores: vault items and calendar credentials live in
	// separate namespaces so their keys cannot collide.
	vaultSecrets, err := secretstore.New(db, "vault", appConfig.SecretStoreKey)
	if err != nil {
		return fmt.Errorf("failed to open vault secret store: %w", err)
	}
	calendarSecrets, err := secretstore.New(db, "calendar", appConfig.SecretStoreKey)
	if err != nil {
		return fmt.Errorf("failed to open calendar secret store: %w", err)
	}

	// Calendar providers. The resolver builds the right client for a
	// connected account: the local ICS file store or the remote Google
	// API with the account's stored token pair.
	oauthConf := google.OAuthConfig(appConfig)
	resolver := services.ProviderResolverFunc(func(account *models.CalendarAccount) (calendar.Provider, error) {
		switch account.Provider {
		case models.ProviderICS:
			return ics.New(filepath.Join(appConfig.ICSDir, account.UserID+".ics")), nil
		case models.ProviderGoogle:
			tokens := google.NewStoreTokenSource(oauthConf, calendarSecrets, account.AccessTokenKey(), account.RefreshTokenKey())
			return google.NewClient(tokens), nil
		default:
			return nil, apperrors.Wrap(apperrors.ErrProviderNotFound, fmt.Errorf("unknown provider %q", account.Provider))
		}
	})

	// Initialize services
	userService := services.NewUserService(db)
	syncService := services.NewSyncService(db, resolver)
	eventService := services.NewEventService(db, syncService)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	habitService := services.NewHabitService(db)
	journalService := services.NewJournalService(db)
	recipeService := services.NewRecipeService(db)
	vaultService := services.NewVaultService(db, vaultSecrets)
	accountService := services.NewCalendarAccountService(db, calendarSecrets, oauthConf)
	materializerService := services.NewMaterializerService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	habitHandler := handlers.NewHabitHandler(habitService)
	journalHandler := handlers.NewJournalHandler(journalService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	vaultHandler := handlers.NewVaultHandler(vaultService)
	calendarHandler := handlers.NewCalendarHandler(accountService, syncService)
	materializeHandler := handlers.NewMaterializeHandler(materializerService)

	// Register custom binding validators
	validator.Register()

	// Background jobs: daily materializer walk, hourly sync
	sched, err := scheduler.New(db, materializerService, syncService)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Event routes
	events := protected.Group("/events")
	events.POST("", eventHandler.CreateEvent)
	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent)
	events.DELETE("/:id", eventHandler.DeleteEvent)

	// Budget routes
	budget := protected.Group("/budget")
	budget.POST("/categories", categoryHandler.CreateCategory)
	budget.GET("/categories", categoryHandler.ListCategories)
	budget.GET("/categories/:id", categoryHandler.GetCategory)
	budget.PUT("/categories/:id", categoryHandler.UpdateCategory)
	budget.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	budget.POST("/expenses", expenseHandler.CreateExpense)
	budget.GET("/expenses", expenseHandler.ListExpenses)
	budget.GET("/expenses/:id", expenseHandler.GetExpense)
	budget.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	budget.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	// Habit routes
	habits := protected.Group("/habits")
	habits.POST("", habitHandler.CreateHabit)
	habits.GET("", habitHandler.ListHabits)
	habits.GET("/:id", habitHandler.GetHabit)
	habits.DELETE("/:id", habitHandler.DeleteHabit)
	habits.GET("/:id/entries", habitHandler.ListHabitEntries)
	habits.POST("/entries/:id/complete", habitHandler.CompleteEntry)

	// Journal routes
	journal := protected.Group("/journal")
	journal.POST("", journalHandler.CreateEntry)
	journal.GET("", journalHandler.ListEntries)
	journal.GET("/:id", journalHandler.GetEntry)
	journal.PUT("/:id", journalHandler.UpdateEntry)
	journal.DELETE("/:id", journalHandler.DeleteEntry)

	// Recipe routes
	recipes := protected.Group("/recipes")
	recipes.POST("", recipeHandler.CreateRecipe)
	recipes.GET("", recipeHandler.ListRecipes)
	recipes.GET("/:id", recipeHandler.GetRecipe)
	recipes.PUT("/:id", recipeHandler.UpdateRecipe)
	recipes.DELETE("/:id", recipeHandler.DeleteRecipe)

	// Vault routes
	vault := protected.Group("/vault")
	vault.POST("", vaultHandler.CreateItem)
	vault.GET("", vaultHandler.ListItems)
	vault.GET("/:id", vaultHandler.GetItemDetails)
	vault.PUT("/:id", vaultHandler.UpdateItem)
	vault.DELETE("/:id", vaultHandler.DeleteItem)

	// Calendar account and sync routes
	cal := protected.Group("/calendar")
	cal.GET("/accounts", calendarHandler.ListAccounts)
	cal.GET("/accounts/:provider/auth-url", calendarHandler.GetAuthURL)
	cal.POST("/accounts/:provider/connect", calendarHandler.Connect)
	cal.PUT("/accounts/:provider/sync-enabled", calendarHandler.SetSyncEnabled)
	cal.DELETE("/accounts/:provider", calendarHandler.SignOut)
	cal.POST("/sync", calendarHandler.SyncAll)
	cal.GET("/agenda", calendarHandler.RemoteAgenda)

	// Materializer trigger
	protected.POST("/materialize", materializeHandler.Materialize)

	log.Infof("Starting Daybook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
