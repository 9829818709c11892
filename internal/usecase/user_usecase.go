package usecase

import (
	"context"
	"unicode/utf8"

	"limelight/internal/domain/entity"
	"limelight/internal/domain/repository"
	"limelight/pkg/errors"
	"limelight/pkg/logger"
)

// PrimaryKeyLength is the length of an auth provider uid. Identifiers of any
// other length are treated as handles.
const PrimaryKeyLength = 28

// isPrimaryKey counts characters, so a handle of multi-byte runes is never
// mistaken for a uid.
func isPrimaryKey(identifier string) bool {
	return utf8.RuneCountInString(identifier) == PrimaryKeyLength
}

type MigrationResult string

const (
	MigrationNone    MigrationResult = "none"
	MigrationLegacy  MigrationResult = "legacy"
	MigrationDefault MigrationResult = "default"
)

type UserUseCase struct {
	userRepo      repository.UserRepository
	authDirectory AuthDirectory
	mailer        WelcomeMailer
	metrics       MetricsRecorder
}

// NewUserUseCase wires the user record flows. authDirectory and mailer may be
// nil, in which case no welcome email is sent.
func NewUserUseCase(userRepo repository.UserRepository, authDirectory AuthDirectory, mailer WelcomeMailer, metrics MetricsRecorder) *UserUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &UserUseCase{
		userRepo:      userRepo,
		authDirectory: authDirectory,
		mailer:        mailer,
		metrics:       metrics,
	}
}

// FetchByID returns the canonical record stored under id, migrating a legacy
// document first. It returns nil when no document exists and never creates one.
func (uc *UserUseCase) FetchByID(ctx context.Context, id string) (*entity.UserInfo, error) {
	record, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Internal("Failed to load user", err)
	}
	if record == nil {
		uc.metrics.IncLookup("id", "not_found")
		return nil, nil
	}

	uc.metrics.IncLookup("id", "found")
	return uc.resolve(ctx, record)
}

// FetchByIDOrHandle treats identifiers of PrimaryKeyLength as document ids and
// anything else as a profile username. When several profiles share a username
// the first one returned by the store wins.
func (uc *UserUseCase) FetchByIDOrHandle(ctx context.Context, identifier string) (*entity.UserInfo, error) {
	if isPrimaryKey(identifier) {
		return uc.FetchByID(ctx, identifier)
	}

	record, err := uc.userRepo.FindByUsername(ctx, identifier)
	if err != nil {
		return nil, errors.Internal("Failed to look up user by username", err)
	}
	if record == nil {
		uc.metrics.IncLookup("handle", "not_found")
		return nil, nil
	}

	uc.metrics.IncLookup("handle", "found")
	return uc.resolve(ctx, record)
}

func (uc *UserUseCase) resolve(ctx context.Context, record *entity.UserRecord) (*entity.UserInfo, error) {
	if record.Migrated() {
		return record.Info, nil
	}

	if _, err := uc.Migrate(ctx, record.ID); err != nil {
		return nil, err
	}

	migrated, err := uc.userRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, errors.Internal("Failed to reload migrated user", err)
	}
	if migrated == nil {
		return nil, nil
	}
	if !migrated.Migrated() {
		return nil, errors.Internal("User record was not migrated", nil)
	}

	return migrated.Info, nil
}

// Migrate brings the document stored under id into the canonical shape. A
// legacy document is mapped and overwritten, a missing one is replaced by the
// default record, and a canonical one is left untouched.
//
// The read and the write are not atomic. Concurrent callers may both write;
// the last write wins.
func (uc *UserUseCase) Migrate(ctx context.Context, id string) (MigrationResult, error) {
	record, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return MigrationNone, errors.Internal("Failed to load user for migration", err)
	}

	if record != nil && record.Migrated() {
		return MigrationNone, nil
	}

	var (
		user   *entity.UserInfo
		result MigrationResult
	)
	if record == nil {
		user = entity.NewDefaultUserInfo(id)
		result = MigrationDefault
	} else {
		legacy := record.Legacy
		if legacy == nil {
			legacy = &entity.LegacyUser{}
		}
		user = legacy.ToUserInfo(id)
		result = MigrationLegacy
	}

	if err := uc.userRepo.Set(ctx, id, user); err != nil {
		return MigrationNone, errors.Internal("Failed to save migrated user", err)
	}

	uc.metrics.IncMigration(string(result))
	logger.Info("User %s migrated (%s)", id, result)
	return result, nil
}

// UpdateProfile merges patch into the profile of userID. Only userID itself
// may update its profile. The document is written in place whatever its shape;
// a legacy document keeps its flat fields and stays unmigrated. A missing
// record is left missing and nil is returned.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, callerID, userID string, patch entity.ProfilePatch) (*entity.UserInfo, error) {
	if callerID == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if callerID != userID {
		return nil, errors.Forbidden("Cannot update another user's profile", nil)
	}

	record, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal("Failed to load user", err)
	}
	if record == nil {
		logger.Debug("Skipping profile update for missing user %s", userID)
		return nil, nil
	}

	if !patch.IsEmpty() {
		if err := uc.userRepo.MergeProfile(ctx, userID, patch); err != nil {
			return nil, errors.Internal("Failed to update user profile", err)
		}
	}

	if record.Info != nil {
		updated := *record.Info
		updated.Profile = patch.ApplyTo(updated.Profile)
		return &updated, nil
	}

	legacy := record.Legacy
	if legacy == nil {
		legacy = &entity.LegacyUser{}
	}
	legacy.ApplyPatch(patch)
	return legacy.Preview(userID), nil
}

// EnsureUser makes sure uid has a canonical record and returns it. A welcome
// email goes out when the record had to be created.
func (uc *UserUseCase) EnsureUser(ctx context.Context, uid string) (*entity.UserInfo, MigrationResult, error) {
	result, err := uc.Migrate(ctx, uid)
	if err != nil {
		return nil, MigrationNone, err
	}

	if result == MigrationDefault {
		uc.sendWelcome(ctx, uid)
	}

	user, err := uc.FetchByID(ctx, uid)
	if err != nil {
		return nil, result, err
	}

	return user, result, nil
}

func (uc *UserUseCase) sendWelcome(ctx context.Context, uid string) {
	if uc.mailer == nil || uc.authDirectory == nil {
		return
	}

	email, name, err := uc.authDirectory.GetContact(ctx, uid)
	if err != nil {
		logger.Warn("Could not look up contact for %s: %v", uid, err)
		return
	}
	if email == "" {
		logger.Debug("No email on file for %s, skipping welcome email", uid)
		return
	}

	if err := uc.mailer.SendWelcome(ctx, email, name); err != nil {
		logger.Error("Welcome email for %s failed: %v", uid, err)
	}
}

// Watch calls fn with the canonical record for id on every change until ctx
// is done or fn returns an error. fn receives nil while no document exists.
// Legacy documents are migrated when first seen; fn is called again once the
// canonical document lands.
func (uc *UserUseCase) Watch(ctx context.Context, id string, fn func(*entity.UserInfo) error) error {
	return uc.userRepo.Watch(ctx, id, func(record *entity.UserRecord) error {
		if record == nil {
			return fn(nil)
		}
		if !record.Migrated() {
			_, err := uc.Migrate(ctx, id)
			return err
		}
		return fn(record.Info)
	})
}

// NewLookup returns a cache for the lifetime of a single request.
func (uc *UserUseCase) NewLookup() *UserLookup {
	return newUserLookup(uc)
}
