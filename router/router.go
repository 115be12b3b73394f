package router

import (
	"time"

	"challengobi/api"
	"challengobi/config"
	_ "challengobi/docs"
	"challengobi/middleware"

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

	// API v1 路由组（供 App 使用）
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			// 登录接口限流，防止暴力破解
			auth.POST("/login", middleware.RateLimit(10, time.Minute), authHandler.Login)
			auth.GET("/check", authHandler.CheckAvailability)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 用户社交与推荐
			userHandler := api.NewUserHandler(cfg)
			users := authorized.Group("/users")
			{
				users.GET("/categories", userHandler.GetCategoryPreference)
				users.PUT("/categories", userHandler.UpdateCategoryPreference)
				users.GET("/recommendations", userHandler.Recommendations)
				users.GET("/badges", userHandler.Badges)
				users.POST("/:id/follow", userHandler.Follow)
				users.DELETE("/:id/follow", userHandler.Unfollow)
				users.GET("/:id/followers", userHandler.Followers)
				users.GET("/:id/following", userHandler.Following)
			}

			// 挑战相关
			challengeHandler := api.NewChallengeHandler()
			expenseHandler := api.NewExpenseHandler(cfg)
			challenges := authorized.Group("/challenges")
			{
				challenges.POST("", challengeHandler.Create)
				challenges.GET("", challengeHandler.List)
				challenges.GET("/mine", challengeHandler.ListMine)
				challenges.GET("/invites", challengeHandler.ListInvites)
				challenges.PUT("/invites/:id", challengeHandler.RespondInvite)
				challenges.GET("/:id", challengeHandler.Get)
				challenges.PUT("/:id", challengeHandler.Update)
				challenges.DELETE("/:id", challengeHandler.Cancel)
				challenges.POST("/:id/join", challengeHandler.Join)
				challenges.POST("/:id/leave", challengeHandler.Leave)
				challenges.POST("/:id/invite", challengeHandler.Invite)
				challenges.POST("/:id/reactions", challengeHandler.React)

				// 消费认证，OCR 上传限流防止刷外部识别服务
				challenges.POST("/:id/expenses/ocr", middleware.RateLimit(20, time.Minute), expenseHandler.UploadReceipts)
				challenges.POST("/:id/expenses/batch", expenseHandler.ConfirmBatch)
				challenges.POST("/:id/expenses", expenseHandler.AddManual)
				challenges.GET("/:id/expenses", expenseHandler.List)
			}

			// 导出相关
			exportHandler := api.NewExportHandler()
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
				export.GET("/json", exportHandler.ExportJSON)
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
