package app

import (
	"teacourse_backend/docs"
	"teacourse_backend/internal/config"
	"teacourse_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		// 学生端
		api.GET("/health", c.submission.HealthCheck)
		api.POST("/submit", c.submission.Submit)

		// 教师端
		api.GET("/stats", c.group.Stats)
		api.GET("/students", c.group.ListStudents)
		api.GET("/students/:submission_id", c.group.StudentDetail)
		api.DELETE("/students/:submission_id", c.group.DeleteStudent)
		// 兼容只发POST的旧版教师页面
		api.POST("/students/:submission_id/delete", c.group.DeleteStudent)

		// 导出
		api.GET("/export/json", c.export.ExportJSON)
		api.GET("/export/csv", c.export.ExportCSV)
	}
}
