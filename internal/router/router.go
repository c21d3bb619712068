package router

import (
	"github.com/gin-gonic/gin"

	"invosync/internal/handler"
	"invosync/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	invoiceH *handler.InvoiceHandler,
	profileH *handler.ProfileHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/ping", healthH.Ping)
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	api := r.Group("/api")
	api.POST("/process", invoiceH.Process)
	api.POST("/process_zip", invoiceH.ProcessArchive)
	api.GET("/invoices", invoiceH.List)
	api.GET("/invoices/export", invoiceH.Export)
	api.POST("/update_invoice", invoiceH.Update)
	api.GET("/profile", profileH.Get)

	// Legacy path kept for older clients.
	r.GET("/get_profile", profileH.Get)

	return r
}
