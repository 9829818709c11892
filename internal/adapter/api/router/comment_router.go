package router

import (
	"github.com/labstack/echo/v4"

	"limelight/internal/adapter/api/handler"
	"limelight/internal/adapter/api/middleware"
)

func SetupCommentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	commentHandler := handler.GetCommentHandler()

	comments := e.Group("/v1/users/:identifier/comments")
	comments.Use(rateLimiter.RateLimitMiddleware())

	comments.GET("", commentHandler.ListComments, authMiddleware.OptionalAuthenticate)
	comments.POST("", commentHandler.PostComment, authMiddleware.Authenticate)
}
