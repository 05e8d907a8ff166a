package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/acme-invoices/config"
	"github.com/yourusername/acme-invoices/invoices"
	"github.com/yourusername/acme-invoices/middleware"
	"github.com/yourusername/acme-invoices/store"
	"gorm.io/gorm"
)

// NewRouter wires every page and action of the dashboard.
func NewRouter(cfg *config.Config, db *gorm.DB, log *slog.Logger) (*gin.Engine, error) {
	views, err := NewViewCache(cfg.ViewCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create view cache: %w", err)
	}

	st := store.New(db, cfg.ItemsPerPage)
	invoiceHandler := NewInvoiceHandler(invoices.NewMutator(st, log), st, views, log)
	dashboardHandler := NewDashboardHandler(st, log)
	authHandler := NewAuthHandler(db, cfg, log)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	router.Use(middleware.Session(cfg), middleware.Guard())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "acme-invoices",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, middleware.LoginPath)
	})
	router.GET(middleware.LoginPath, authHandler.LoginPage)
	router.POST(middleware.LoginPath, authHandler.Login)

	dashboard := router.Group(middleware.ProtectedPrefix)
	{
		dashboard.GET("", dashboardHandler.Overview)
		dashboard.GET("/customers", dashboardHandler.Customers)
		dashboard.POST("/logout", authHandler.Logout)

		dashboard.GET("/invoices", invoiceHandler.List)
		dashboard.POST("/invoices", invoiceHandler.Create)
		dashboard.GET("/invoices/create", invoiceHandler.CreateForm)
		dashboard.GET("/invoices/:id/edit", invoiceHandler.EditForm)
		dashboard.POST("/invoices/:id", invoiceHandler.Update)
		dashboard.POST("/invoices/:id/delete", invoiceHandler.Delete)
	}

	return router, nil
}
