package server

import (
	"github.com/kestrel-legal/matterlog/backend/internal/server/middleware"
	"github.com/kestrel-legal/matterlog/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Evidence routes
	apiRoutes.GET("/evidence", routes.GetEvidenceHandler, middleware.RequirePermission("evidence.view"))
	apiRoutes.GET("/evidence/:id", routes.GetEvidenceByIDHandler, middleware.RequirePermission("evidence.view"))
	apiRoutes.GET("/evidence/:id/related", routes.GetRelatedEvidenceHandler, middleware.RequirePermission("evidence.view"))
	apiRoutes.POST("/evidence", routes.CreateEvidenceHandler, middleware.RequirePermission("evidence.create"))
	apiRoutes.PATCH("/evidence/:id/contact", routes.UpdateEvidenceContactHandler, middleware.RequirePermission("evidence.update"))

	// Analysis routes
	apiRoutes.POST("/correlate", routes.CorrelateHandler, middleware.RequirePermission("correlation.run"))
	apiRoutes.POST("/docket-associations", routes.DocketAssociationsHandler, middleware.RequirePermission("correlation.run"))
	apiRoutes.GET("/stats", routes.GetStatsHandler, middleware.RequireAnyPermission("evidence.view", "project.view"))

	// Project routes
	apiRoutes.GET("/project-suggestions", routes.GetProjectSuggestionsHandler, middleware.RequirePermission("project.view"))
	apiRoutes.GET("/projects", routes.GetProjectsHandler, middleware.RequirePermission("project.view"))
	apiRoutes.POST("/projects", routes.CreateProjectHandler, middleware.RequirePermission("project.create"))
	apiRoutes.GET("/projects/:id/evidence", routes.GetProjectEvidenceHandler, middleware.RequirePermission("project.view"))

	// File routes
	apiRoutes.POST("/files", routes.UploadFilesHandler, middleware.RequirePermission("file.upload"))
	apiRoutes.GET("/files", routes.GetUploadsHandler, middleware.RequirePermission("file.view"))
	apiRoutes.POST("/files/link", routes.FileLinkHandler, middleware.RequirePermission("file.view"))

	// Case routes
	apiRoutes.POST("/case/clear", routes.ClearCaseHandler, middleware.RequirePermission("evidence.clear"))
}
