// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently just the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login,
// refresh and logout live under /v1/auth and need no session; /v1/me sits
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh_token body or a bearer header, so it does
	// not sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "GUEST"))
	auth.GET("/me", a.Me)
}

// RegisterBookings registers the reservation endpoints.  All of them
// require a session; booking creation additionally runs through the rate
// limiter so one client cannot drain room inventory in a burst.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "GUEST"))

	g.POST("", b.Create, limiter)
	g.GET("/history", b.History)
	g.GET("/:id", b.Get)
}

// RegisterRooms registers the room catalog.  Any authenticated user can
// browse; catalog writes are admin only.
func RegisterRooms(e *echo.Echo, r *handler.RoomHandler, jwtSecret string) {
	g := e.Group("/v1/rooms")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "GUEST"))
	g.GET("", r.List)
	g.GET("/:id", r.Get)

	admin := e.Group("/v1/rooms")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("", r.Create)
	admin.PUT("/:id", r.Update)
	admin.DELETE("/:id", r.Delete)
}

// RegisterFeedback registers guest feedback endpoints plus the admin
// listing.
func RegisterFeedback(e *echo.Echo, f *handler.FeedbackHandler, jwtSecret string) {
	g := e.Group("/v1/feedback")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "GUEST"))
	g.POST("", f.Submit)
	g.GET("", f.Mine)

	admin := e.Group("/v1/admin/feedback")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.GET("", f.All)
}
