package repository

import (
	"context"

	"limelight/internal/domain/entity"
)

// UserRepository reads and writes documents in the users collection. Lookups
// return a nil record and a nil error when no document matches.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.UserRecord, error)
	FindByUsername(ctx context.Context, username string) (*entity.UserRecord, error)
	Set(ctx context.Context, id string, user *entity.UserInfo) error
	// MergeProfile writes only the fields set in patch below "profile", leaving
	// the rest of the document as stored. A missing document is not created.
	MergeProfile(ctx context.Context, id string, patch entity.ProfilePatch) error
	Watch(ctx context.Context, id string, fn func(*entity.UserRecord) error) error
}
