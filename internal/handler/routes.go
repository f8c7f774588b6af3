package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes привязывает обработчики к маршрутам сервиса.
func RegisterRoutes(e *echo.Echo, runs *RunHandler, logs *LogHandler) {
	api := e.Group("/api")

	// Массовые операции
	api.POST("/students/create", runs.PostCreateStudents)
	api.POST("/students/update", runs.PostUpdateStudents)
	api.POST("/students/delete", runs.PostDeleteStudents)
	api.POST("/courses/reassign", runs.PostReassignCourses)
	api.POST("/courses/link", runs.PostLinkStudents)
	api.POST("/teams/create", runs.PostCloneTeams)
	api.POST("/teams/purge", runs.PostPurgeTeams)
	api.POST("/teams/delete", runs.PostDeleteTeams)

	// Журналы и статистика
	api.GET("/logs", logs.GetLogs)
	api.GET("/logs/:name", logs.GetLog)
	api.GET("/logs/:name/download", logs.DownloadLog)
	api.GET("/stats", logs.GetStats)
	api.GET("/charts/line", logs.GetLineChart)
	api.GET("/charts/bar", logs.GetBarChart)
	api.GET("/charts/doughnut", logs.GetDoughnutChart)
	api.GET("/teams/inventory", logs.DownloadInventory)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
