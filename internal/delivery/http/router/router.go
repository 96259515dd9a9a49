// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/config"
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"
	"storefront/internal/domain/entity"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ProductHandler  *handler.ProductHandler
	AuthHandler     *handler.AuthHandler
	OrderHandler    *handler.OrderHandler
	WishlistHandler *handler.WishlistHandler
	UploadHandler   *handler.UploadHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Config          *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	productHandler  *handler.ProductHandler
	authHandler     *handler.AuthHandler
	orderHandler    *handler.OrderHandler
	wishlistHandler *handler.WishlistHandler
	uploadHandler   *handler.UploadHandler
	authMiddleware  *middleware.AuthMiddleware
	config          *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		productHandler:  params.ProductHandler,
		authHandler:     params.AuthHandler,
		orderHandler:    params.OrderHandler,
		wishlistHandler: params.WishlistHandler,
		uploadHandler:   params.UploadHandler,
		authMiddleware:  params.AuthMiddleware,
		config:          params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	requireAdmin := []echo.MiddlewareFunc{
		r.authMiddleware.Authenticate,
		r.authMiddleware.RequireRole(entity.RoleAdmin),
	}

	api := e.Group("/api")

	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.productHandler.ListProducts)
		productGroup.GET("/resolve", r.productHandler.ResolveProductQR)
		productGroup.GET("/:id", r.productHandler.GetProduct)
		productGroup.GET("/:id/qrcode", r.productHandler.GetProductQRCode)
		productGroup.POST("", r.productHandler.CreateProduct, requireAdmin...)
		productGroup.PUT("/:id", r.productHandler.UpdateProduct, requireAdmin...)
		productGroup.DELETE("/:id", r.productHandler.DeleteProduct, requireAdmin...)
	}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	orderGroup := api.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.PlaceOrder)
		orderGroup.GET("/my", r.orderHandler.ListMyOrders)
	}

	wishlistGroup := api.Group("/wishlist")
	wishlistGroup.Use(r.authMiddleware.Authenticate)
	{
		wishlistGroup.GET("", r.wishlistHandler.ListWishlist)
		wishlistGroup.POST("", r.wishlistHandler.AddToWishlist)
		wishlistGroup.DELETE("/:productId", r.wishlistHandler.RemoveFromWishlist)
	}

	// Uploads get their own body limit; the global one is sized for JSON.
	uploadMiddleware := append([]echo.MiddlewareFunc{
		echomiddleware.BodyLimit(r.config.HTTP.MaxUploadSize),
	}, requireAdmin...)
	api.POST("/upload", r.uploadHandler.UploadImage, uploadMiddleware...)

	e.GET(r.config.Storage.PublicPrefix+":name", r.uploadHandler.ServeImage)
}
