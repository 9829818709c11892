package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"

	"limelight/internal/domain/entity"
	"limelight/internal/domain/service"
	"limelight/pkg/errors"
	"limelight/pkg/logger"
)

const MaxImageSize int64 = 5 * 1024 * 1024

type ImageKind string

const (
	ImageKindProfile ImageKind = "profile"
	ImageKindCover   ImageKind = "cover"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type UploadImageInput struct {
	Kind        ImageKind
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

type MediaUseCase struct {
	storage service.FileUploadService
	users   *UserUseCase
}

func NewMediaUseCase(storage service.FileUploadService, users *UserUseCase) *MediaUseCase {
	return &MediaUseCase{
		storage: storage,
		users:   users,
	}
}

// UploadProfileImage stores an image under <uid>/<kind>-<filename> and points
// the profile's image or cover at it. The previous image is removed when it
// lived in the same bucket.
func (uc *MediaUseCase) UploadProfileImage(ctx context.Context, uid string, in UploadImageInput) (string, *entity.UserInfo, error) {
	if in.Kind != ImageKindProfile && in.Kind != ImageKindCover {
		return "", nil, errors.BadRequest("Image kind must be profile or cover", nil)
	}
	if in.Size > MaxImageSize {
		return "", nil, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", MaxImageSize/(1024*1024)), nil)
	}
	if !allowedImageTypes[in.ContentType] {
		return "", nil, errors.BadRequest("File type not supported", nil)
	}

	current, err := uc.users.FetchByID(ctx, uid)
	if err != nil {
		return "", nil, err
	}
	if current == nil {
		return "", nil, errors.NotFound("User", nil)
	}

	objectName := fmt.Sprintf("%s/%s-%s", uid, in.Kind, sanitizeFilename(in.Filename))
	url, err := uc.storage.UploadObject(ctx, objectName, in.ContentType, in.File)
	if err != nil {
		return "", nil, errors.Internal("Failed to upload image", err)
	}

	patch := entity.ProfilePatch{}
	previous := current.Profile.Cover
	if in.Kind == ImageKindProfile {
		patch.Image = &url
		previous = current.Profile.Image
	} else {
		patch.Cover = &url
	}

	user, err := uc.users.UpdateProfile(ctx, uid, uid, patch)
	if err != nil {
		return "", nil, err
	}

	if previous != "" && previous != url {
		if err := uc.storage.DeleteFile(ctx, previous); err != nil {
			logger.Debug("Previous %s image for %s not removed: %v", in.Kind, uid, err)
		}
	}

	return url, user, nil
}

func sanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "-")
	if name == "" || name == "." || name == "-" {
		return "image"
	}
	return name
}
