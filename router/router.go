package router

import (
	"time"

	"myfinances/api"
	"myfinances/config"
	"myfinances/database"
	_ "myfinances/docs"
	"myfinances/middleware"
	"myfinances/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter builds the HTTP engine and wires every route.
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	timeout := time.Duration(cfg.Pricing.TimeoutSeconds) * time.Second
	prices := service.NewPriceService(&cfg.Pricing)
	valuator := service.NewValuator(database.DB, prices)
	rates := service.NewRateService(timeout)

	v1 := r.Group("/api/v1")
	{
		// auth routes, no token required
		authHandler := api.NewAuthHandler(cfg)
		passwordResetHandler := api.NewPasswordResetHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(5, time.Minute), authHandler.Login)

			auth.POST("/password/request-reset", passwordResetHandler.RequestPasswordReset)
			auth.GET("/password/verify-token", passwordResetHandler.VerifyResetToken)
			auth.POST("/password/reset", passwordResetHandler.ResetPassword)
		}

		// everything below requires a JWT
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			transactionHandler := api.NewTransactionHandler()
			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			investmentHandler := api.NewInvestmentHandler(prices)
			investments := authorized.Group("/investments")
			{
				investments.POST("", investmentHandler.Create)
				investments.GET("", investmentHandler.List)
				investments.PUT("/:id", investmentHandler.Update)
				investments.DELETE("/:id", investmentHandler.Delete)
				investments.POST("/:id/contributions", investmentHandler.AddContribution)
				investments.DELETE("/:id/contributions/:cid", investmentHandler.DeleteContribution)
			}

			propertyHandler := api.NewPropertyHandler()
			properties := authorized.Group("/properties")
			{
				properties.POST("", propertyHandler.Create)
				properties.GET("", propertyHandler.List)
				properties.PUT("/:id", propertyHandler.Update)
				properties.DELETE("/:id", propertyHandler.Delete)
			}

			budgetHandler := api.NewBudgetHandler()
			budgets := authorized.Group("/budgets")
			{
				budgets.POST("", budgetHandler.Create)
				budgets.GET("", budgetHandler.List)
				budgets.GET("/progress", budgetHandler.Progress)
				budgets.PUT("/:id", budgetHandler.Update)
				budgets.DELETE("/:id", budgetHandler.Delete)
			}

			settingsHandler := api.NewSettingsHandler()
			authorized.GET("/settings", settingsHandler.Get)
			authorized.PUT("/settings", settingsHandler.Update)

			portfolioHandler := api.NewPortfolioHandler(valuator)
			portfolio := authorized.Group("/portfolio")
			{
				portfolio.GET("/summary", portfolioHandler.Summary)
				portfolio.GET("/projection", portfolioHandler.Projection)
				portfolio.POST("/refresh", portfolioHandler.Refresh)
			}

			rateHandler := api.NewRateHandler(rates)
			authorized.GET("/rates/savings", rateHandler.SavingsRate)

			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("", exportHandler.ExportJSON)
				export.POST("", exportHandler.ImportJSON)
				export.GET("/excel", exportHandler.ExportExcel)
			}
		}
	}

	// health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware allows cross-origin requests from the web client.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
