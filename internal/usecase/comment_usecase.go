package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"limelight/internal/domain/entity"
	"limelight/internal/domain/repository"
	"limelight/pkg/errors"
)

const (
	MaxCommentLength    = 1000
	DefaultCommentLimit = 50
	MaxCommentLimit     = 200
)

type CommentUseCase struct {
	commentRepo repository.CommentRepository
}

func NewCommentUseCase(commentRepo repository.CommentRepository) *CommentUseCase {
	return &CommentUseCase{
		commentRepo: commentRepo,
	}
}

// PostComment stores text as a comment by authorID on the profile named by
// target, which may be a uid or a username.
func (uc *CommentUseCase) PostComment(ctx context.Context, users UserReader, authorID, target, text string) (*entity.UserComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Comment text is required", nil)
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, errors.BadRequest("Comment is too long", nil)
	}

	profile, err := users.FetchByIDOrHandle(ctx, target)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("User", nil)
	}

	author, err := users.FetchByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.Forbidden("A profile is required to comment", nil)
	}

	comment := &entity.UserComment{
		ID:        uuid.New().String(),
		Text:      text,
		UserID:    author.UID,
		Username:  author.Profile.Username,
		ProfileID: profile.UID,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, errors.Internal("Failed to save comment", err)
	}

	return comment, nil
}

// ListComments returns the newest comments on the profile named by target.
func (uc *CommentUseCase) ListComments(ctx context.Context, users UserReader, target string, limit int) ([]*entity.UserComment, error) {
	if limit <= 0 {
		limit = DefaultCommentLimit
	}
	if limit > MaxCommentLimit {
		limit = MaxCommentLimit
	}

	profile, err := users.FetchByIDOrHandle(ctx, target)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("User", nil)
	}

	comments, err := uc.commentRepo.ListByProfile(ctx, profile.UID, limit)
	if err != nil {
		return nil, errors.Internal("Failed to load comments", err)
	}

	return comments, nil
}
