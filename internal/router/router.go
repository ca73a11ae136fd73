package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"marketplace-admin/internal/controller"
	"marketplace-admin/internal/middleware"
)

// Controllers agrupa los handlers que se montan en el router.
type Controllers struct {
	Orders      *controller.OrderController
	Businesses  *controller.BusinessController
	Catalog     *controller.CatalogController
	Marketplace *controller.MarketplaceController
	Files       *controller.FileController
}

// Los streams SSE y las descargas no se comprimen.
var uncompressed = []string{`/stream$`, `^/files/`}

func New(ctl Controllers, auth middleware.TokenValidator, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(uncompressed)))

	// Rutas públicas
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/files/*path", ctl.Files.Serve)

	// Rutas admin (token + permiso admin)
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(auth), middleware.AdminOnly())

	orders := admin.Group("/orders")
	orders.GET("", ctl.Orders.List)
	orders.GET("/:id", ctl.Orders.Detail)
	orders.GET("/:id/stream", ctl.Orders.Stream)
	orders.POST("/:id/transitions", ctl.Orders.Transition)
	orders.GET("/:id/drivers", ctl.Orders.Drivers)
	orders.PUT("/:id/driver", ctl.Orders.AssignDriver)
	orders.PUT("/:id/items", ctl.Orders.ReplaceItems)
	orders.PUT("/:id/payout", ctl.Orders.SetPayout)
	orders.GET("/:id/catalog", ctl.Orders.SearchCatalog)

	businesses := admin.Group("/businesses")
	businesses.GET("", ctl.Businesses.List)
	businesses.POST("", ctl.Businesses.Create)
	businesses.POST("/reorder", ctl.Businesses.Reorder)
	businesses.GET("/:id", ctl.Businesses.Get)
	businesses.PUT("/:id", ctl.Businesses.Update)
	businesses.DELETE("/:id", ctl.Businesses.Delete)

	categories := admin.Group("/categories")
	categories.GET("", ctl.Catalog.ListCategories)
	categories.POST("", ctl.Catalog.CreateCategory)
	categories.POST("/reorder", ctl.Catalog.ReorderCategories)
	categories.PUT("/:id", ctl.Catalog.UpdateCategory)
	categories.DELETE("/:id", ctl.Catalog.DeleteCategory)

	products := admin.Group("/products")
	products.GET("", ctl.Catalog.ListProducts)
	products.POST("", ctl.Catalog.CreateProduct)
	products.GET("/:id", ctl.Catalog.GetProduct)
	products.PUT("/:id", ctl.Catalog.UpdateProduct)
	products.DELETE("/:id", ctl.Catalog.DeleteProduct)

	modifiers := admin.Group("/modifiers")
	modifiers.GET("", ctl.Catalog.ListModifiers)
	modifiers.POST("", ctl.Catalog.CreateModifier)
	modifiers.PUT("/:id", ctl.Catalog.UpdateModifier)
	modifiers.DELETE("/:id", ctl.Catalog.DeleteModifier)

	marketplace := admin.Group("/marketplace")
	marketplace.GET("", ctl.Marketplace.List)
	marketplace.POST("", ctl.Marketplace.Create)
	marketplace.POST("/reorder", ctl.Marketplace.Reorder)
	marketplace.PUT("/:id", ctl.Marketplace.Update)
	marketplace.DELETE("/:id", ctl.Marketplace.Delete)

	admin.GET("/cities", ctl.Marketplace.Cities)

	return r
}
