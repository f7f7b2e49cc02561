package app

import (
	"exam_marking_backend/docs"
	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/middleware"
	"exam_marking_backend/internal/model"
	"exam_marking_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.PUT("/profile/password", c.user.ChangePassword)

		// 课程模块、作业、评分均为讲师侧操作
		lecturer := authGroup.Group("/")
		lecturer.Use(middleware.RoleMiddleware(model.Lecturer))
		{
			lecturer.POST("/modules", c.module.Create)
			lecturer.GET("/modules", c.module.List)
			lecturer.GET("/modules/:id", c.module.Get)
			lecturer.PUT("/modules/:id", c.module.Update)
			lecturer.DELETE("/modules/:id", c.module.Delete)

			lecturer.POST("/assignments", c.assignment.Create)
			lecturer.GET("/assignments", c.assignment.List)
			lecturer.GET("/assignments/:id", c.assignment.Get)
			lecturer.PUT("/assignments/:id", c.assignment.Update)
			lecturer.DELETE("/assignments/:id", c.assignment.Delete)

			lecturer.POST("/assignments/:id/submissions", c.submission.Upload)
			lecturer.GET("/assignments/:id/submissions", c.submission.List)
			lecturer.GET("/submissions/:id", c.submission.Get)
			lecturer.DELETE("/submissions/:id", c.submission.Delete)

			lecturer.POST("/assignments/:id/scheme", c.scheme.Create)
			lecturer.GET("/assignments/:id/scheme", c.scheme.Get)
			lecturer.PUT("/assignments/:id/scheme", c.scheme.Update)
			lecturer.DELETE("/assignments/:id/scheme", c.scheme.Delete)
			lecturer.POST("/schemes/parse", c.scheme.Import)

			lecturer.POST("/submissions/:id/grade", c.grading.GradeSubmission)
			lecturer.GET("/submissions/:id/results", c.grading.Details)
			lecturer.POST("/assignments/:id/grade", c.grading.GradeAssignment)
			lecturer.DELETE("/assignments/:id/results", c.grading.Clear)
			lecturer.GET("/assignments/:id/report", c.grading.Report)

			lecturer.GET("/dashboard/stats", c.dashboard.Stats)
			lecturer.GET("/dashboard/trends", c.dashboard.Trends)
		}
	}
}
