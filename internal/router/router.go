package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alpayabdullayev/Basic-Reservation-System/internal/handler"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/middleware"
	"github.com/alpayabdullayev/Basic-Reservation-System/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring systems to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth
// plus the protected current-user endpoint. Verification and password
// reset are unauthenticated by design: both are reached from email
// links before the user holds a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.GET("/verify-email", a.VerifyEmail)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	users := e.Group("/v1/users")
	users.Use(middleware.JWTAuth(jwtSecret))
	users.GET("/current-user", u.CurrentUser)
}

// RegisterVenues registers the venue directory. Reads are public so
// guests can browse; every mutation requires an authenticated admin.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, jwtSecret string) {
	e.GET("/v1/venues", v.Find)
	e.GET("/v1/venues/:id", v.FindOne)

	admin := e.Group("/v1/venues")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("", v.Create)
	admin.PUT("/:id", v.Update)
	admin.DELETE("/:id", v.Delete)
}

// RegisterBookings registers the reservation endpoints. All of them
// require a session; the admin listing additionally requires the admin
// role and must be registered before the parameterized delete so the
// literal segment wins.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("/admin", b.ListAdmin, middleware.RequireRole(model.RoleAdmin))
	g.POST("", b.Create)
	g.GET("", b.ListMine)
	g.DELETE("/:id", b.Delete)
}
