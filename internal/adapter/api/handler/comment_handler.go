package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"limelight/internal/usecase"
	"limelight/pkg/errors"
	"limelight/pkg/response"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
	userUseCase    *usecase.UserUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase, userUseCase *usecase.UserUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
		userUseCase:    userUseCase,
	}
}

type postCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

func (h *CommentHandler) ListComments(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return response.Error(c, errors.BadRequest("limit must be a positive number", err))
		}
		limit = n
	}

	comments, err := h.commentUseCase.ListComments(
		c.Request().Context(),
		lookupFrom(c, h.userUseCase),
		c.Param("identifier"),
		limit,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comments)
}

func (h *CommentHandler) PostComment(c echo.Context) error {
	var req postCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.commentUseCase.PostComment(
		c.Request().Context(),
		lookupFrom(c, h.userUseCase),
		callerID(c),
		c.Param("identifier"),
		req.Text,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}
