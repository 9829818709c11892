package handler

import (
	"github.com/labstack/echo/v4"

	"limelight/internal/usecase"
	"limelight/pkg/errors"
	"limelight/pkg/logger"
	"limelight/pkg/response"
)

type MediaHandler struct {
	mediaUseCase *usecase.MediaUseCase
}

func NewMediaHandler(mediaUseCase *usecase.MediaUseCase) *MediaHandler {
	return &MediaHandler{
		mediaUseCase: mediaUseCase,
	}
}

func (h *MediaHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	logger.Debug("Received file: %s, size: %d bytes, type: %s", file.Filename, file.Size, file.Header.Get("Content-Type"))

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	uid := callerID(c)
	url, user, err := h.mediaUseCase.UploadProfileImage(c.Request().Context(), uid, usecase.UploadImageInput{
		Kind:        usecase.ImageKind(c.Param("kind")),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		File:        src,
	})
	if err != nil {
		logger.Error("Image upload for %s failed: %v", uid, err)
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"url":  url,
		"user": user,
	})
}
