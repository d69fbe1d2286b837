package router

import (
	"time"

	"budgetown/api"
	"budgetown/config"
	_ "budgetown/docs"
	"budgetown/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)

			// 密码重置
			auth.POST("/password/request-reset", authHandler.RequestPasswordReset)
			auth.POST("/password/verify-code", authHandler.VerifyResetCode)
			auth.POST("/password/reset", authHandler.ResetPassword)
		}

		// 类别注册表（无需登录）
		v1.GET("/categories", api.GetCategories)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 钱包
			wallets := authorized.Group("/wallets")
			{
				wallets.GET("", api.GetWallets)
				wallets.GET("/balances", api.GetWalletBalances)
				wallets.POST("", api.CreateWallet)
				wallets.PUT("/:id", api.UpdateWallet)
				wallets.DELETE("/:id", api.DeleteWallet)
			}

			// 交易
			transactions := authorized.Group("/transactions")
			{
				transactions.GET("", api.GetTransactions)
				transactions.POST("", api.CreateTransaction)
				transactions.GET("/:id", api.GetTransaction)
				transactions.PUT("/:id", api.UpdateTransaction)
				transactions.DELETE("/:id", api.DeleteTransaction)
			}

			// 预算
			budgets := authorized.Group("/budgets")
			{
				budgets.GET("", api.GetBudgets)
				budgets.PUT("", api.SetBudget)
			}

			// 固定支出
			fixedCosts := authorized.Group("/fixed-costs")
			{
				fixedCosts.GET("", api.GetFixedCosts)
				fixedCosts.POST("", api.CreateFixedCost)
				fixedCosts.PUT("/:id", api.UpdateFixedCost)
				fixedCosts.DELETE("/:id", api.DeleteFixedCost)
			}

			// 统计
			analytics := authorized.Group("/analytics")
			{
				analytics.GET("/summary", api.GetSummary)
				analytics.GET("/monthly-series", api.GetMonthlySeries)
				analytics.GET("/balance-trend", api.GetBalanceTrend)
				analytics.GET("/category-breakdown", api.GetCategoryBreakdown)
			}

			// 导入导出
			export := authorized.Group("/export")
			{
				export.GET("/csv", api.ExportCSV)
				export.GET("/excel", api.ExportExcel)
				export.GET("/json", api.ExportJSON)
			}
			authorized.POST("/import/csv", api.ImportCSV)

			// 小票识别
			receiptHandler := api.NewReceiptHandler(cfg)
			receipts := authorized.Group("/receipts")
			{
				receipts.POST("/extract", receiptHandler.ExtractReceipt)
				receipts.POST("/confirm", receiptHandler.ConfirmReceipt)
			}

			// 消息推送
			notifyHandler := api.NewNotifyHandler(cfg)
			notify := authorized.Group("/notify/telegram")
			{
				notify.PUT("/bind", notifyHandler.BindTelegram)
				notify.POST("/test", notifyHandler.TestTelegram)
				notify.POST("/balance", notifyHandler.PushBalance)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
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
