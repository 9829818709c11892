package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"limelight/internal/domain/entity"
	"limelight/internal/usecase"
	"limelight/pkg/errors"
	"limelight/pkg/logger"
	"limelight/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type web3Request struct {
	PublicAddress *string `json:"public_address" validate:"omitempty,max=128"`
}

type profileRequest struct {
	Name     *string           `json:"name" validate:"omitempty,max=100"`
	Username *string           `json:"username" validate:"omitempty,min=3,max=30"`
	Bio      *string           `json:"bio" validate:"omitempty,max=500"`
	Image    *string           `json:"image" validate:"omitempty,url"`
	Cover    *string           `json:"cover" validate:"omitempty,url"`
	Links    map[string]string `json:"links"`
	Web3     *web3Request      `json:"web3"`
}

type updateProfileRequest struct {
	Profile profileRequest `json:"profile"`
}

func (h *UserHandler) GetUser(c echo.Context) error {
	identifier := c.Param("identifier")
	if identifier == "" {
		return response.Error(c, errors.BadRequest("User identifier is required", nil))
	}

	user, err := lookupFrom(c, h.userUseCase).FetchByIDOrHandle(c.Request().Context(), identifier)
	if err != nil {
		logger.Error("Error fetching user %s: %v", identifier, err)
		return response.Error(c, err)
	}
	if user == nil {
		return response.Error(c, errors.NotFound("User", nil))
	}

	return response.Success(c, visibleTo(user, callerID(c)))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := callerID(c)
	userID := c.Param("userId")
	if userID == "me" {
		userID = uid
	}

	patch := entity.ProfilePatch{
		Name:     req.Profile.Name,
		Username: req.Profile.Username,
		Bio:      req.Profile.Bio,
		Image:    req.Profile.Image,
		Cover:    req.Profile.Cover,
	}
	if req.Profile.Links != nil {
		links := normalizeLinks(req.Profile.Links)
		patch.Links = &links
	}
	if req.Profile.Web3 != nil {
		patch.PublicAddress = req.Profile.Web3.PublicAddress
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, userID, patch)
	if err != nil {
		logger.Error("Error updating profile for %s: %v", userID, err)
		return response.Error(c, err)
	}

	lookupFrom(c, h.userUseCase).Forget(userID)

	if user == nil {
		return response.Success(c, map[string]interface{}{
			"updated": false,
		})
	}

	return response.Success(c, user)
}

func (h *UserHandler) EnsureMe(c echo.Context) error {
	uid := callerID(c)

	user, result, err := h.userUseCase.EnsureUser(c.Request().Context(), uid)
	if err != nil {
		logger.Error("Error ensuring user %s: %v", uid, err)
		return response.Error(c, err)
	}

	lookupFrom(c, h.userUseCase).Forget(uid)

	return response.Success(c, map[string]interface{}{
		"user":      user,
		"migration": result,
	})
}

// normalizeLinks maps the known link keys onto entity.Links, prefixing values
// that lack a scheme with https://.
func normalizeLinks(raw map[string]string) entity.Links {
	var links entity.Links
	for key, value := range raw {
		value = normalizeLink(value)
		switch strings.ToLower(key) {
		case "website":
			links.Website = value
		case "spotify":
			links.Spotify = value
		case "itunes":
			links.Itunes = value
		case "instagram":
			links.Instagram = value
		case "twitter":
			links.Twitter = value
		case "tiktok":
			links.Tiktok = value
		case "youtube":
			links.Youtube = value
		}
	}
	return links
}

func normalizeLink(value string) string {
	value = strings.TrimSpace(value)
	if value != "" && !strings.HasPrefix(value, "http") {
		return "https://" + value
	}
	return value
}
