// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/andriansp/account-service/internal/handler"
)

// New builds the root Echo instance: request logging, panic recovery and
// every route of the service.
func New(a *handler.AccountHandler) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Logger(), middleware.Recover())
	RegisterRoutes(e, a)
	return e
}

// RegisterRoutes wires every endpoint of the account service onto the
// provided Echo instance. None of the routes require authentication: the
// service issues session tokens but does not verify them.
func RegisterRoutes(e *echo.Echo, a *handler.AccountHandler) {
	e.GET("/healthz", handler.Health)

	e.POST("/register", a.Register)
	e.POST("/verify-otp", a.VerifyOtp)
	e.POST("/login", a.Login)
	e.POST("/resend-otp", a.ResendOtp)

	e.GET("/users", a.ListAccounts)
	e.GET("/users/:id", a.GetUserDetail)
	e.POST("/profile", a.GetProfileByEmail)
	e.PUT("/profile/update", a.UpdateProfile)

	e.POST("/password/request-otp", a.RequestPasswordResetOtp)
	e.POST("/password/verify-otp", a.VerifyPasswordResetOtp)
	e.POST("/password/update", a.UpdatePassword)
}
