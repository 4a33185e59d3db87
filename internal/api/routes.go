package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"course_web/internal/api/handlers"
	"course_web/internal/config"
	"course_web/internal/middleware"
	"course_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, cfg *config.Config) {
	// 初始化 handlers
	authHandler := handlers.NewAuthHandler(services.User)
	courseHandler := handlers.NewCourseHandler(services.Course)
	userHandler := handlers.NewUserHandler(services.User, services.Course)
	wsHandler := handlers.NewWebSocketHandler(services.Broker, services.Course, cfg.Chat.MaxMessageSize)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 公開路由
	{
		// 用戶認證相關
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 基本的健康檢查
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// WebSocket 連接點，token 走查詢參數驗證
		api.GET("/ws", wsHandler.HandleWebSocket)
	}

	// 需要驗證的路由
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		// 課程相關
		courses := authorized.Group("/courses")
		{
			// 基本操作
			courses.GET("", courseHandler.ListCourses)         // 獲取課程列表
			courses.POST("", courseHandler.CreateCourse)       // 創建課程
			courses.GET("/:id", courseHandler.GetCourse)       // 獲取課程信息
			courses.PUT("/:id", courseHandler.UpdateCourse)    // 更新課程
			courses.DELETE("/:id", courseHandler.DeleteCourse) // 刪除課程

			// 課程參與
			courses.POST("/:id/enroll", courseHandler.Enroll) // 選修課程

			// 課程內容
			courses.GET("/:id/lectures", courseHandler.ListLectures)       // 講座列表
			courses.POST("/:id/lectures", courseHandler.CreateLecture)     // 新增講座
			courses.GET("/:id/assignments", courseHandler.ListAssignments) // 作業列表
			courses.POST("/:id/assignments", courseHandler.CreateAssignment)
		}

		// 用戶管理相關
		users := authorized.Group("/users")
		{
			users.GET("", userHandler.ListUsers)                    // 用戶列表（管理員）
			users.GET("/stats/overview", userHandler.StatsOverview) // 平台統計（管理員）
			users.GET("/:id", userHandler.GetUser)                  // 用戶資料（管理員或本人）
			users.PUT("/:id", userHandler.UpdateUser)               // 更新資料（管理員或本人）
			users.PUT("/:id/status", userHandler.ToggleUserStatus)  // 切換啟用狀態（管理員）
			users.DELETE("/:id", userHandler.DeleteUser)            // 刪除用戶（管理員）
		}
	}
}
