package http

import (
	"campus-market/internal/service"
	"campus-market/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Orders    service.OrderService
	Catalog   service.CatalogService
	Addresses service.AddressService
	Cart      service.CartService
	Reviews   service.ReviewService
	Favorites service.FavoriteService
}

func Router(svcs Services, verifier *token.HSProvider, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	orderHandler := NewOrderHandler(svcs.Orders, log)
	catalogHandler := NewCatalogHandler(svcs.Catalog, log)
	addressHandler := NewAddressHandler(svcs.Addresses, log)
	cartHandler := NewCartHandler(svcs.Cart, log)
	reviewHandler := NewReviewHandler(svcs.Reviews, svcs.Favorites, log)

	// Public catalog browsing and review reads.
	items := r.Group("/api/items")
	{
		items.GET("", catalogHandler.List)
		items.GET("/:id", catalogHandler.Get)
		items.GET("/:id/reviews", reviewHandler.ListByItem)
		items.GET("/:id/favorites/count", reviewHandler.FavoriteCount)
		items.POST("/check-stock", catalogHandler.CheckStock)
	}
	r.GET("/api/sellers/:seller_id/rating", reviewHandler.SellerRating)

	authed := r.Group("/api", AuthRequired(verifier))
	{
		authed.POST("/items", catalogHandler.Create)
		authed.PATCH("/items/:id", catalogHandler.Update)
		authed.DELETE("/items/:id", catalogHandler.Deactivate)
		authed.POST("/items/:id/stock", catalogHandler.AdjustStock)

		authed.POST("/orders", orderHandler.Create)
		authed.GET("/orders", orderHandler.List)
		authed.GET("/orders/:id", orderHandler.Get)
		authed.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		authed.DELETE("/orders/:id", orderHandler.Cancel)
		authed.GET("/orders/statistics", orderHandler.Statistics)

		authed.GET("/addresses", addressHandler.List)
		authed.POST("/addresses", addressHandler.Create)
		authed.PATCH("/addresses/:id", addressHandler.Update)
		authed.DELETE("/addresses/:id", addressHandler.Delete)
		authed.POST("/addresses/:id/default", addressHandler.SetDefault)

		authed.GET("/cart", cartHandler.Get)
		authed.POST("/cart", cartHandler.Add)
		authed.PUT("/cart", cartHandler.UpdateQuantity)
		authed.DELETE("/cart/:item_id", cartHandler.Remove)
		authed.DELETE("/cart", cartHandler.Clear)

		authed.POST("/reviews", reviewHandler.Create)

		authed.GET("/favorites", reviewHandler.ListFavorites)
		authed.POST("/favorites", reviewHandler.AddFavorite)
		authed.DELETE("/favorites/:item_id", reviewHandler.RemoveFavorite)
	}

	return r
}
