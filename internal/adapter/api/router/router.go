package router

import (
	"github.com/labstack/echo/v4"

	"limelight/internal/adapter/api/middleware"
	"limelight/internal/usecase"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, userUseCase *usecase.UserUseCase) {
	e.Use(middleware.UserLookup(userUseCase))

	SetupUserRouter(e, authMiddleware, rateLimiter)
	SetupCommentRouter(e, authMiddleware, rateLimiter)
	SetupHealthRouter(e)
}
