package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"limelight/internal/domain/entity"
	"limelight/internal/domain/repository"
)

const commentsCollection = "comments"

type firestoreCommentRepository struct {
	client *firestore.Client
}

func NewFirestoreCommentRepository(client *firestore.Client) repository.CommentRepository {
	return &firestoreCommentRepository{
		client: client,
	}
}

func (r *firestoreCommentRepository) Create(ctx context.Context, comment *entity.UserComment) error {
	_, err := r.client.Collection(commentsCollection).Doc(comment.ID).Set(ctx, comment)
	return err
}

func (r *firestoreCommentRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*entity.UserComment, error) {
	query := r.client.Collection(commentsCollection).
		Where("profileId", "==", profileID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	comments := []*entity.UserComment{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var comment entity.UserComment
		if err := doc.DataTo(&comment); err != nil {
			return nil, err
		}
		comment.ID = doc.Ref.ID
		comments = append(comments, &comment)
	}

	return comments, nil
}
