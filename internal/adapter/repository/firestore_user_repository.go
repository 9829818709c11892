package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/spf13/cast"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"limelight/internal/domain/entity"
	"limelight/internal/domain/repository"
	"limelight/pkg/logger"
)

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.UserRecord, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	return decodeUserRecord(doc)
}

func (r *firestoreUserRepository) FindByUsername(ctx context.Context, username string) (*entity.UserRecord, error) {
	iter := r.client.Collection(usersCollection).
		Where("profile.username", "==", username).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return decodeUserRecord(doc)
}

func (r *firestoreUserRepository) Set(ctx context.Context, id string, user *entity.UserInfo) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Set(ctx, user)
	return err
}

func (r *firestoreUserRepository) MergeProfile(ctx context.Context, id string, patch entity.ProfilePatch) error {
	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{
			FieldPath: append(firestore.FieldPath{"profile"}, strings.Split(path, ".")...),
			Value:     value,
		})
	}

	logger.Debug("Merging %d profile fields for user %s", len(updates), id)

	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

func (r *firestoreUserRepository) Watch(ctx context.Context, id string, fn func(*entity.UserRecord) error) error {
	iter := r.client.Collection(usersCollection).Doc(id).Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return nil
			}
			return err
		}

		var record *entity.UserRecord
		if snap.Exists() {
			record, err = decodeUserRecord(snap)
			if err != nil {
				return err
			}
		}

		if err := fn(record); err != nil {
			return err
		}
	}
}

// decodeUserRecord picks the document shape from the migrated flag. Canonical
// documents decode strictly; legacy documents decode field by field.
func decodeUserRecord(doc *firestore.DocumentSnapshot) (*entity.UserRecord, error) {
	data := doc.Data()
	record := &entity.UserRecord{ID: doc.Ref.ID}

	if cast.ToBool(data["migrated"]) {
		var user entity.UserInfo
		if err := doc.DataTo(&user); err != nil {
			return nil, err
		}
		record.Info = &user
		return record, nil
	}

	record.Legacy = entity.LegacyUserFromMap(data)
	return record, nil
}
