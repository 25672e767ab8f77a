// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"boutique/internal/delivery/api/middleware"
	"boutique/internal/delivery/api/router/handler"
	"boutique/internal/domain/navigation"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	apiPrefix         = "/api/v1"
	adminPrefix       = "/admin"
	adminProductsPath = "/products"
	adminProductPath  = "/products/:id"
)

// IsUploadRoute reports whether c matched one of the multipart product endpoints,
// which carry their own body limit instead of the global one.
func IsUploadRoute(c echo.Context) bool {
	switch c.Path() {
	case apiPrefix + adminPrefix + adminProductsPath:
		return c.Request().Method == http.MethodPost
	case apiPrefix + adminPrefix + adminProductPath:
		return c.Request().Method == http.MethodPut
	}

	return false
}

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	SessionHandler *handler.SessionHandler
	ShellHandler   *handler.ShellHandler
	CatalogHandler *handler.CatalogHandler
	AccountHandler *handler.AccountHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	sessionHandler *handler.SessionHandler
	shellHandler   *handler.ShellHandler
	catalogHandler *handler.CatalogHandler
	accountHandler *handler.AccountHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		sessionHandler: params.SessionHandler,
		shellHandler:   params.ShellHandler,
		catalogHandler: params.CatalogHandler,
		accountHandler: params.AccountHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// uploadLimit wraps the multipart product endpoints.
func (r *router) RegisterRoutes(e *echo.Echo, uploadLimit echo.MiddlewareFunc) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Every API route resolves the caller when a token is present
	apiV1 := e.Group(apiPrefix)
	apiV1.Use(r.authMiddleware.Identify)

	apiV1.GET("/shell", r.shellHandler.Shell)
	apiV1.GET("/navigation", r.sessionHandler.Navigate)

	sessionGroup := apiV1.Group("/session")
	{
		sessionGroup.GET("", r.sessionHandler.Current)
		sessionGroup.GET("/stream", r.sessionHandler.Stream)
		sessionGroup.POST("/logout", r.sessionHandler.Logout)
	}

	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/federated", r.authHandler.FederatedSignIn)
		authGroup.POST("/refresh", r.authHandler.RefreshToken)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Guard(navigation.AreaAccount))
	}

	// Public storefront
	apiV1.GET("/home", r.catalogHandler.Home)
	apiV1.GET("/categories", r.catalogHandler.Categories)
	apiV1.GET("/categories/:slug/products", r.catalogHandler.CategoryProducts)
	apiV1.GET("/products/:id", r.catalogHandler.Product)

	// Customer area
	accountGroup := apiV1.Group("/account")
	accountGroup.Use(r.authMiddleware.Guard(navigation.AreaAccount))
	{
		accountGroup.GET("/profile", r.accountHandler.Profile)
		accountGroup.PUT("/profile", r.accountHandler.UpdateProfile)
		accountGroup.PUT("/password", r.accountHandler.ChangePassword)

		accountGroup.GET("/addresses", r.accountHandler.ListAddresses)
		accountGroup.POST("/addresses", r.accountHandler.CreateAddress)
		accountGroup.PUT("/addresses/:id", r.accountHandler.UpdateAddress)
		accountGroup.DELETE("/addresses/:id", r.accountHandler.DeleteAddress, middleware.RequireConfirmation)
		accountGroup.PUT("/addresses/:id/default", r.accountHandler.SetDefaultAddress)

		accountGroup.GET("/orders", r.accountHandler.ListOrders)
		accountGroup.POST("/orders", r.accountHandler.PlaceOrder)
		accountGroup.GET("/orders/:id", r.accountHandler.GetOrder)
		accountGroup.GET("/orders/:id/qr", r.accountHandler.OrderQRCode)
	}

	// Back office
	adminGroup := apiV1.Group(adminPrefix)
	adminGroup.Use(r.authMiddleware.Guard(navigation.AreaAdmin))
	{
		adminGroup.GET("/dashboard", r.adminHandler.Dashboard)

		adminGroup.GET(adminProductsPath, r.adminHandler.ListProducts)
		adminGroup.POST(adminProductsPath, r.adminHandler.CreateProduct, uploadLimit)
		adminGroup.GET(adminProductPath, r.adminHandler.GetProduct)
		adminGroup.PUT(adminProductPath, r.adminHandler.UpdateProduct, uploadLimit)
		adminGroup.DELETE(adminProductPath, r.adminHandler.DeleteProduct, middleware.RequireConfirmation)

		adminGroup.GET("/categories", r.adminHandler.ListCategories)
		adminGroup.POST("/categories", r.adminHandler.CreateCategory)
		adminGroup.PUT("/categories/:id", r.adminHandler.UpdateCategory)
		adminGroup.DELETE("/categories/:id", r.adminHandler.DeleteCategory, middleware.RequireConfirmation)

		adminGroup.GET("/users", r.adminHandler.ListUsers)
		adminGroup.PUT("/users/:id/role", r.adminHandler.ChangeRole)

		adminGroup.GET("/orders", r.adminHandler.ListOrders)
		adminGroup.POST("/orders/scan", r.adminHandler.ScanOrder)
		adminGroup.PUT("/orders/:id/status", r.adminHandler.UpdateOrderStatus)
	}
}
