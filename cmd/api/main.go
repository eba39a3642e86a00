package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"moneta/internal/budget"
	"moneta/internal/category"
	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/handlers"
	"moneta/internal/insights"
	"moneta/internal/ledger"
	"moneta/internal/logger"
	"moneta/internal/middleware"
	"moneta/internal/recurring"
	"moneta/internal/savings"
	"moneta/internal/validator"
	"moneta/internal/wallet"
)

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

	// Open the embedded store and run migrations
	dbManager, err := database.NewManager(appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// One gate serializes every write against the single-writer store.
	db := dbManager.DB()
	gate := database.NewGate()

	// Initialize core components
	repo := ledger.NewRepository(db, gate, appConfig.DefaultCurrency)
	categoryService := category.NewService(db, gate)
	budgetService := budget.NewService(db, gate, appConfig.WarningThreshold)
	recurringService := recurring.NewService(db, gate)
	scheduler := recurring.NewScheduler(db, gate, appConfig.DefaultCurrency)
	walletService := wallet.NewService(db, gate)
	savingsService := savings.NewService(db, gate)
	engine := insights.NewEngine(repo)
	worker := insights.NewWorker(engine)

	// Catch up recurring transactions missed while the process was down.
	created, err := scheduler.ProcessAllDue(time.Now())
	if err != nil {
		return fmt.Errorf("failed to process due recurring transactions: %w", err)
	}
	if created > 0 {
		log.Infof("Materialized %d due recurring transaction(s) on startup", created)
	}

	// Initialize handlers
	transactionHandler := handlers.NewTransactionHandler(repo)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	recurringHandler := handlers.NewRecurringHandler(recurringService, scheduler)
	insightsHandler := handlers.NewInsightsHandler(engine, worker)
	exportHandler := handlers.NewExportHandler(repo)
	walletHandler := handlers.NewWalletHandler(walletService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)

	// Initialize Gin router
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/statistics", transactionHandler.GetStatistics)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category routes
	categories := v1.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.ListCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes
	budgets := v1.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/status", budgetHandler.GetBudgetStatus)
	budgets.GET("/:id/prediction", budgetHandler.GetBudgetPrediction)

	// Recurring transaction routes
	recurringGroup := v1.Group("/recurring")
	recurringGroup.POST("", recurringHandler.CreateRecurring)
	recurringGroup.GET("", recurringHandler.ListRecurring)
	recurringGroup.GET("/:id", recurringHandler.GetRecurringByID)
	recurringGroup.PUT("/:id", recurringHandler.UpdateRecurring)
	recurringGroup.POST("/:id/deactivate", recurringHandler.DeactivateRecurring)
	recurringGroup.POST("/process-due", recurringHandler.ProcessDue)

	// Insights routes
	insightsGroup := v1.Group("/insights")
	insightsGroup.GET("/trends", insightsHandler.GetTrends)
	insightsGroup.GET("/categories", insightsHandler.GetCategoryBreakdown)
	insightsGroup.GET("/categories/:id/trend", insightsHandler.GetCategoryTrend)
	insightsGroup.GET("/top-expenses", insightsHandler.GetTopExpenses)
	insightsGroup.GET("/by-day", insightsHandler.GetSpendingByDayOfWeek)
	insightsGroup.GET("/by-hour", insightsHandler.GetSpendingByHour)
	insightsGroup.GET("/patterns", insightsHandler.GetPatterns)
	insightsGroup.GET("/overview", insightsHandler.GetOverview)

	// Export / import routes
	exportGroup := v1.Group("/export")
	exportGroup.GET("/snapshot", exportHandler.GetSnapshot)
	exportGroup.POST("/import", exportHandler.ImportSnapshot)

	// Wallet routes
	wallets := v1.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.ListWallets)
	wallets.GET("/:id", walletHandler.GetWalletByID)
	wallets.POST("/:id/default", walletHandler.SetDefaultWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)

	// Savings goal routes
	goals := v1.Group("/savings-goals")
	goals.POST("", savingsHandler.CreateSavingsGoal)
	goals.GET("", savingsHandler.ListSavingsGoals)
	goals.GET("/:id", savingsHandler.GetSavingsGoalByID)
	goals.POST("/:id/progress", savingsHandler.AddSavingsProgress)
	goals.DELETE("/:id", savingsHandler.DeleteSavingsGoal)

	log.Infof("Starting Moneta server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
