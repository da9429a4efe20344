// Package router maps HTTP routes onto handlers and applies the
// authentication and role middleware for each group.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/middleware"
	"github.com/iliyamo/room-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth and the
// authenticated /v1/me endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so no JWT is required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(string(model.RoleAdmin), string(model.RoleUser)))
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the room, reservation and course endpoints
// available to every authenticated user.
func RegisterAPI(e *echo.Echo, rooms *handler.RoomHandler, reservations *handler.ReservationHandler, courses *handler.CourseHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(string(model.RoleAdmin), string(model.RoleUser)))

	g.GET("/rooms", rooms.List)
	g.GET("/rooms/free", rooms.Free)
	g.GET("/rooms/:id", rooms.Get)
	g.GET("/rooms/:id/details", rooms.Details)
	g.GET("/rooms/:id/reservations", rooms.Agenda)
	g.GET("/rooms/:id/status", rooms.Status)
	g.GET("/rooms/:id/status/detail", rooms.StatusDetail)
	g.GET("/rooms/:id/availability", rooms.Availability)

	g.POST("/reservations", reservations.Create)
	g.GET("/reservations", reservations.ListMine)
	g.GET("/reservations/:id", reservations.Get)
	g.DELETE("/reservations/:id", reservations.Cancel)

	g.GET("/courses", courses.List)
}

// RegisterAdmin registers the administrative endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(string(model.RoleAdmin)))

	g.POST("/blocks", a.Block)
	g.POST("/maintenance", a.Maintenance)
	g.GET("/reservations", a.ListReservations)
	g.DELETE("/reservations/:id", a.CancelReservation)

	g.POST("/rooms", a.CreateRoom)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	g.POST("/courses", a.CreateCourse)
	g.DELETE("/courses/:id", a.DeleteCourse)
}
