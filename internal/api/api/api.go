package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"github.com/SangulugariMadhuGoud/Superbloom/cmd/middleware"
	"github.com/SangulugariMadhuGoud/Superbloom/internal/service"
)

type Routers struct {
	Service    service.Service
	MediaRoot  string
	AdminToken string
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())

	apiGroup := app.Group("/api")

	apiGroup.GET("/health", r.Service.Health)
	apiGroup.POST("/contact", r.Service.SubmitContact)
	apiGroup.GET("/workshops", r.Service.ListWorkshops)
	apiGroup.GET("/workshops/:id", r.Service.GetWorkshop)
	apiGroup.POST("/workshops/:id/register", r.Service.Register)

	admin := apiGroup.Group("/admin")
	admin.Use(middleware.AdminAuth(r.AdminToken))

	admin.POST("/workshops", r.Service.CreateWorkshop)
	admin.PUT("/workshops/:id", r.Service.UpdateWorkshop)
	admin.POST("/workshops/:id/images", r.Service.UploadWorkshopImages)
	admin.DELETE("/workshops/:id", r.Service.DeleteWorkshop)
	admin.GET("/registrations", r.Service.ListRegistrations)
	admin.POST("/registrations/status", r.Service.BulkStatus)
	admin.PUT("/registrations/:id/notes", r.Service.SetNotes)
	admin.POST("/export/csv", r.Service.ExportCSV)
	admin.POST("/export/xlsx", r.Service.ExportXLSX)
	admin.POST("/export/sheets", r.Service.ExportSheets)
	admin.GET("/dashboard", r.Service.Dashboard)

	app.Static("/media", r.MediaRoot)

	return app
}
