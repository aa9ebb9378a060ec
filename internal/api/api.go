package api

import (
	"gorm.io/gorm"

	"reselling-toolbox/internal/importer"
	"reselling-toolbox/internal/pricing"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	db       *gorm.DB
	importer *importer.Importer
	policy   pricing.Policy
}

func SetupRoutes(r *gin.RouterGroup, db *gorm.DB, imp *importer.Importer) *Handler {
	handler := &Handler{
		db:       db,
		importer: imp,
		policy:   pricing.DefaultPolicy,
	}

	// Stock / inventory routes
	stock := r.Group("/stock")
	{
		stock.GET("", handler.ListStock)
		stock.GET("/by-sku", handler.GetStockBySKU)
		stock.GET("/next-sku", handler.NextSKU)
		stock.GET("/:sku/pricing", handler.GetStockPricing)
		stock.POST("", handler.CreateStock)
		stock.POST("/update", handler.UpdateStock)
		stock.POST("/duplicate", handler.DuplicateStock)
		stock.POST("/batch-update", handler.BatchUpdateStock)
		stock.POST("/archive", handler.ArchiveStock)
		stock.POST("/archive-many", handler.ArchiveManyStock)
		stock.DELETE("/permanent-delete", handler.PermanentDeleteStock)
		stock.POST("/import-from-url", handler.ImportStockFromURL)
	}

	// Sales routes
	sales := r.Group("/sales")
	{
		sales.GET("", handler.ListSales)
		sales.GET("/archived", handler.ListArchivedSales)
		sales.GET("/:id", handler.GetSale)
		sales.POST("", handler.CreateSale)
		sales.PATCH("/:id/fulfillment", handler.UpdateFulfillment)
		sales.POST("/archive", handler.ArchiveSale)
		sales.POST("/restore", handler.RestoreSale)
		sales.POST("/archive-many", handler.ArchiveManySales)
		sales.POST("/restore-many", handler.RestoreManySales)
		sales.DELETE("/permanent-delete", handler.PermanentDeleteSales)
	}

	// Returns
	r.POST("/returns/upsert", handler.UpsertReturn)

	// Listings
	listings := r.Group("/listings")
	{
		listings.GET("", handler.ListListings)
		listings.POST("", handler.CreateListing)
		listings.PATCH("/:id", handler.UpdateListing)
		listings.DELETE("/:id", handler.DeleteListing)
	}

	// Locations
	locations := r.Group("/locations")
	{
		locations.GET("", handler.ListLocations)
		locations.POST("", handler.CreateLocation)
		locations.DELETE("/:id", handler.DeleteLocation)
	}

	// Watchlist
	watchlist := r.Group("/watchlist")
	{
		watchlist.GET("", handler.GetWatchlist)
		watchlist.POST("/add", handler.AddToWatchlist)
		watchlist.POST("/remove", handler.RemoveFromWatchlist)
	}

	// Dashboards and reports
	r.GET("/dashboard", handler.GetDashboard)
	r.GET("/reports", handler.GetReports)

	// Excel exports
	export := r.Group("/export")
	{
		export.GET("/inventory", handler.ExportInventory)
		export.GET("/sales", handler.ExportSales)
	}

	return handler
}
