package repository

import (
	"context"

	"limelight/internal/domain/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.UserComment) error
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*entity.UserComment, error)
}
