package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/chayapol-b/jobfair-booking/internal/handler"
	"github.com/chayapol-b/jobfair-booking/internal/middleware"
	"github.com/chayapol-b/jobfair-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under
// /api/v1/auth, while the protected /auth/me endpoint carries JWT
// verification.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session (register, login,
	// refresh, logout).  Each of these handlers is responsible for
	// generating, exchanging or revoking tokens.
	g := e.Group("/api/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and issues a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout accepts a JSON body containing a `refresh_token` and
	// invalidates that token.  It does not require JWT authentication, so a
	// client with an expired access token can still terminate its session.
	g.POST("/logout", a.Logout)

	// /auth/me and /auth/logout-all require a valid access token with a
	// known role.
	auth := e.Group("/api/v1/auth")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)
	// Revokes every refresh session the user holds, not just one.
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterCatalog registers the company and job fair endpoints.  Reads are
// public so visitors can browse before signing up; every mutation is
// reserved for admins.  When a cache middleware is supplied, it is applied
// to the public reads only, since the admin surface must never serve stale
// rows back to the operator who just changed them.
func RegisterCatalog(e *echo.Echo, companies *handler.CompanyHandler, jobfairs *handler.JobfairHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	pub := e.Group("/api/v1")
	if cache != nil {
		pub.Use(cache)
	}
	pub.GET("/companies", companies.List)
	pub.GET("/companies/:id", companies.Get)
	pub.GET("/jobfairs", jobfairs.List)
	pub.GET("/jobfairs/:id", jobfairs.Get)

	admin := e.Group("/api/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/companies", companies.Create)
	admin.PUT("/companies/:id", companies.Update)
	// Deleting a parent also removes every booking attached to it.
	admin.DELETE("/companies/:id", companies.Delete)
	admin.POST("/jobfairs", jobfairs.Create)
	admin.PUT("/jobfairs/:id", jobfairs.Update)
	admin.DELETE("/jobfairs/:id", jobfairs.Delete)
}

// RegisterBookings registers the appointment and reservation endpoints.
// All of them require an authenticated user; per-record ownership and
// admin-only listing scope are enforced inside the handlers, not here.
func RegisterBookings(e *echo.Echo, appointments, reservations *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	// Appointments are created under their company so the parent id comes
	// from the path, never from the body.
	g.POST("/companies/:companyId/appointments", appointments.Create)
	g.GET("/appointments", appointments.List)
	g.GET("/appointments/:id", appointments.Get)
	g.PUT("/appointments/:id", appointments.Update)
	g.DELETE("/appointments/:id", appointments.Delete)

	g.POST("/jobfairs/:jobfairId/reservations", reservations.Create)
	g.GET("/reservations", reservations.List)
	g.GET("/reservations/:id", reservations.Get)
	g.PUT("/reservations/:id", reservations.Update)
	g.DELETE("/reservations/:id", reservations.Delete)
}
