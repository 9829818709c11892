package usecase

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"limelight/internal/domain/entity"
	"limelight/internal/testutil"
	"limelight/pkg/errors"
)

const testUID = "abcdefghijklmnopqrstuvwxyz12"

func strPtr(s string) *string { return &s }

func legacyDoc() map[string]interface{} {
	return map[string]interface{}{
		"uid":                testUID,
		"name":               "Jo",
		"username":           "jo",
		"bio":                "old bio",
		"email":              "jo@example.com",
		"photoUrl":           "https://img/p.png",
		"city":               "Austin",
		"lat":                30.2,
		"userFollowersCount": int64(9),
		"isArtist":           true,
		"appVersion":         "1.0.0",
		"lastSignIn":         int64(1700000000000),
	}
}

func canonicalUser(uid, username string) *entity.UserInfo {
	user := entity.NewDefaultUserInfo(uid)
	user.FcmToken = "token"
	user.IsCreator = true
	user.Profile.Name = "Jo"
	user.Profile.Username = username
	user.Profile.Bio = "old"
	user.Profile.Links.Website = "https://jo.example.com"
	user.Location.City = "Austin"
	return user
}

func newTestUseCase(repo *testutil.MemoryUserRepository) *UserUseCase {
	return NewUserUseCase(repo, nil, nil, nil)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	uc := newTestUseCase(repo)
	ctx := context.Background()

	result, err := uc.Migrate(ctx, testUID)
	require.NoError(t, err)
	assert.Equal(t, MigrationLegacy, result)
	first := repo.Stored(testUID)
	require.NotNil(t, first)

	result, err = uc.Migrate(ctx, testUID)
	require.NoError(t, err)
	assert.Equal(t, MigrationNone, result)
	assert.Equal(t, first, repo.Stored(testUID))
	assert.Equal(t, 1, repo.SetCalls)
}

func TestMigrate_SynthesizesDefaultRecord(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	uc := newTestUseCase(repo)

	result, err := uc.Migrate(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, MigrationDefault, result)
	assert.Equal(t, entity.NewDefaultUserInfo("never-seen"), repo.Stored("never-seen"))
}

func TestMigrate_LegacyMapping(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	uc := newTestUseCase(repo)

	_, err := uc.Migrate(context.Background(), testUID)
	require.NoError(t, err)

	user := repo.Stored(testUID)
	require.NotNil(t, user)
	assert.True(t, user.Migrated)
	assert.False(t, user.IsArtist)
	assert.True(t, user.IsCreator)
	assert.Equal(t, "Jo", user.Profile.Name)
	assert.Equal(t, "https://img/p.png", user.Profile.Image)
	assert.Equal(t, int64(9), user.Profile.TotalFollowers)
	assert.Equal(t, "jo@example.com", user.Profile.EmailAddress)
	assert.Equal(t, 30.2, user.Location.Latitude)
	assert.Empty(t, user.Location.CountryCode)
	assert.Equal(t, "1.0.0", user.Metrics.MusicIosApp.Version)
	assert.Equal(t, int64(1700000000000), user.Metrics.LastLogin)
}

func TestMigrate_PropagatesStoreErrors(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.Err = stderrors.New("unavailable")
	uc := newTestUseCase(repo)

	_, err := uc.Migrate(context.Background(), testUID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	assert.ErrorIs(t, err, repo.Err)
}

func TestFetchByID_MissingReturnsNilWithoutWriting(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	uc := newTestUseCase(repo)

	user, err := uc.FetchByID(context.Background(), testUID)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, repo.SetCalls)
}

func TestFetchByID_MigratesLegacyOnRead(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	uc := newTestUseCase(repo)

	user, err := uc.FetchByID(context.Background(), testUID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Migrated)
	assert.Equal(t, "Jo", user.Profile.Name)
	assert.Equal(t, user, repo.Stored(testUID))
}

func TestFetchByID_CanonicalIsReturnedUnchanged(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	stored := canonicalUser(testUID, "jo")
	repo.SeedUser(testUID, stored)
	uc := newTestUseCase(repo)

	user, err := uc.FetchByID(context.Background(), testUID)
	require.NoError(t, err)
	assert.Equal(t, stored, user)
	assert.Zero(t, repo.SetCalls)
}

func TestFetchByIDOrHandle_PrimaryKeyLengthUsesKeyLookup(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedUser(testUID, canonicalUser(testUID, "jo"))
	uc := newTestUseCase(repo)

	user, err := uc.FetchByIDOrHandle(context.Background(), testUID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testUID, user.UID)
	assert.Equal(t, 1, repo.GetByIDCalls)
	assert.Zero(t, repo.FindByUsernameCalls)
}

func TestFetchByIDOrHandle_OtherLengthsQueryUsername(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedUser(testUID, canonicalUser(testUID, "jo"))
	uc := newTestUseCase(repo)
	ctx := context.Background()

	user, err := uc.FetchByIDOrHandle(ctx, "jo")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testUID, user.UID)
	assert.Zero(t, repo.GetByIDCalls)
	assert.Equal(t, 1, repo.FindByUsernameCalls)

	// 27 and 29 characters are handles, not keys.
	for _, id := range []string{testUID[:27], testUID + "x"} {
		user, err = uc.FetchByIDOrHandle(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, user)
	}
	assert.Zero(t, repo.GetByIDCalls)
	assert.Equal(t, 3, repo.FindByUsernameCalls)
}

func TestFetchByIDOrHandle_DuplicateHandlesResolveToFirst(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedUser("b-user", canonicalUser("b-user", "dup"))
	repo.SeedUser("a-user", canonicalUser("a-user", "dup"))
	uc := newTestUseCase(repo)

	user, err := uc.FetchByIDOrHandle(context.Background(), "dup")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a-user", user.UID)
}

func TestUpdateProfile_MergesOnlyProvidedFields(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	before := canonicalUser(testUID, "jo")
	repo.SeedUser(testUID, before)
	uc := newTestUseCase(repo)

	user, err := uc.UpdateProfile(context.Background(), testUID, testUID, entity.ProfilePatch{Bio: strPtr("new")})
	require.NoError(t, err)
	require.NotNil(t, user)

	expected := *before
	expected.Profile.Bio = "new"
	assert.Equal(t, &expected, repo.Stored(testUID))
	assert.Equal(t, &expected, user)
}

func TestUpdateProfile_ReplacesLinksAndAddress(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedUser(testUID, canonicalUser(testUID, "jo"))
	uc := newTestUseCase(repo)

	links := entity.Links{Spotify: "https://open.spotify.com/artist/1"}
	_, err := uc.UpdateProfile(context.Background(), testUID, testUID, entity.ProfilePatch{
		Links:         &links,
		PublicAddress: strPtr("0xabc"),
	})
	require.NoError(t, err)

	stored := repo.Stored(testUID)
	assert.Equal(t, links, stored.Profile.Links)
	assert.Equal(t, "0xabc", stored.Profile.Web3.PublicAddress)
	assert.Equal(t, "old", stored.Profile.Bio)
}

func TestUpdateProfile_MissingRecordIsNoop(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	uc := newTestUseCase(repo)

	user, err := uc.UpdateProfile(context.Background(), testUID, testUID, entity.ProfilePatch{Bio: strPtr("new")})
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, repo.Stored(testUID))
	assert.Zero(t, repo.MergeCalls)
	assert.Zero(t, repo.SetCalls)
}

func TestUpdateProfile_RequiresMatchingCaller(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedUser(testUID, canonicalUser(testUID, "jo"))
	uc := newTestUseCase(repo)
	ctx := context.Background()

	_, err := uc.UpdateProfile(ctx, "", testUID, entity.ProfilePatch{Bio: strPtr("x")})
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	_, err = uc.UpdateProfile(ctx, "someone-else", testUID, entity.ProfilePatch{Bio: strPtr("x")})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Zero(t, repo.MergeCalls)
}

func TestUpdateProfile_MergesIntoNestedProfileWithoutMigrating(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy("abc", map[string]interface{}{
		"uid": "abc",
		"profile": map[string]interface{}{
			"name": "Jo",
			"bio":  "old",
		},
	})
	uc := newTestUseCase(repo)

	user, err := uc.UpdateProfile(context.Background(), "abc", "abc", entity.ProfilePatch{Bio: strPtr("new")})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jo", user.Profile.Name)
	assert.Equal(t, "new", user.Profile.Bio)
	assert.False(t, user.Migrated)

	stored := repo.StoredLegacy("abc")
	require.NotNil(t, stored)
	assert.Equal(t, map[string]interface{}{"name": "Jo", "bio": "new"}, stored.Profile)
	assert.Nil(t, repo.Stored("abc"))
	assert.Zero(t, repo.SetCalls)
	assert.Equal(t, 1, repo.MergeCalls)
}

func TestUpdateProfile_FlatLegacyKeepsFieldsThroughLaterMigration(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	uc := newTestUseCase(repo)
	ctx := context.Background()

	user, err := uc.UpdateProfile(ctx, testUID, testUID, entity.ProfilePatch{Bio: strPtr("new")})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jo", user.Profile.Name)
	assert.Equal(t, "new", user.Profile.Bio)
	assert.Zero(t, repo.SetCalls)

	migrated, err := uc.FetchByID(ctx, testUID)
	require.NoError(t, err)
	require.NotNil(t, migrated)
	assert.True(t, migrated.Migrated)
	assert.Equal(t, "Jo", migrated.Profile.Name)
	assert.Equal(t, "new", migrated.Profile.Bio)
	assert.Equal(t, "jo@example.com", migrated.Profile.EmailAddress)
}

func TestFetchByIDOrHandle_CountsCharactersNotBytes(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	handle := strings.Repeat("é", PrimaryKeyLength/2)
	require.Len(t, handle, PrimaryKeyLength)
	repo.SeedUser(testUID, canonicalUser(testUID, handle))
	uc := newTestUseCase(repo)

	user, err := uc.FetchByIDOrHandle(context.Background(), handle)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testUID, user.UID)
	assert.Equal(t, 1, repo.FindByUsernameCalls)
	assert.Zero(t, repo.GetByIDCalls)
}

func TestEnsureUser_SendsWelcomeOnlyForNewRecords(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy("legacy-user", legacyDoc())
	auth := &testutil.MockAuthDirectory{}
	mailer := &testutil.MockMailer{}
	auth.On("GetContact", mock.Anything, testUID).Return("jo@example.com", "Jo", nil)
	mailer.On("SendWelcome", mock.Anything, "jo@example.com", "Jo").Return(nil)
	uc := NewUserUseCase(repo, auth, mailer, nil)
	ctx := context.Background()

	user, result, err := uc.EnsureUser(ctx, testUID)
	require.NoError(t, err)
	assert.Equal(t, MigrationDefault, result)
	assert.Equal(t, entity.NewDefaultUserInfo(testUID), user)

	_, result, err = uc.EnsureUser(ctx, testUID)
	require.NoError(t, err)
	assert.Equal(t, MigrationNone, result)

	_, result, err = uc.EnsureUser(ctx, "legacy-user")
	require.NoError(t, err)
	assert.Equal(t, MigrationLegacy, result)

	mailer.AssertNumberOfCalls(t, "SendWelcome", 1)
	auth.AssertExpectations(t)
}

func TestEnsureUser_MailFailureIsNotReturned(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	auth := &testutil.MockAuthDirectory{}
	mailer := &testutil.MockMailer{}
	auth.On("GetContact", mock.Anything, testUID).Return("jo@example.com", "", nil)
	mailer.On("SendWelcome", mock.Anything, "jo@example.com", "").Return(stderrors.New("sendgrid down"))
	uc := NewUserUseCase(repo, auth, mailer, nil)

	user, result, err := uc.EnsureUser(context.Background(), testUID)
	require.NoError(t, err)
	assert.Equal(t, MigrationDefault, result)
	assert.NotNil(t, user)
	mailer.AssertExpectations(t)
}

func TestEnsureUser_SkipsMailWithoutEmail(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	auth := &testutil.MockAuthDirectory{}
	mailer := &testutil.MockMailer{}
	auth.On("GetContact", mock.Anything, testUID).Return("", "", nil)
	uc := NewUserUseCase(repo, auth, mailer, nil)

	_, _, err := uc.EnsureUser(context.Background(), testUID)
	require.NoError(t, err)
	mailer.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything, mock.Anything)
}

type recordingMetrics struct {
	migrations []string
	lookups    []string
}

func (m *recordingMetrics) IncMigration(transition string) {
	m.migrations = append(m.migrations, transition)
}

func (m *recordingMetrics) IncLookup(kind, outcome string) {
	m.lookups = append(m.lookups, kind+":"+outcome)
}

func TestMetricsAreRecorded(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	metrics := &recordingMetrics{}
	uc := NewUserUseCase(repo, nil, nil, metrics)
	ctx := context.Background()

	_, err := uc.FetchByIDOrHandle(ctx, testUID)
	require.NoError(t, err)
	_, err = uc.FetchByIDOrHandle(ctx, "ghost")
	require.NoError(t, err)

	assert.Equal(t, []string{"legacy"}, metrics.migrations)
	assert.Equal(t, []string{"id:found", "handle:not_found"}, metrics.lookups)
}

func TestWatch_MigratesLegacyAndDeliversCanonical(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	repo.SeedLegacy(testUID, legacyDoc())
	uc := newTestUseCase(repo)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errDone := stderrors.New("done")
	var got []*entity.UserInfo
	err := uc.Watch(ctx, testUID, func(user *entity.UserInfo) error {
		got = append(got, user)
		return errDone
	})

	assert.ErrorIs(t, err, errDone)
	require.Len(t, got, 1)
	require.NotNil(t, got[0])
	assert.True(t, got[0].Migrated)
	assert.Equal(t, "Jo", got[0].Profile.Name)
}

func TestWatch_DeliversNilForMissingThenUpdates(t *testing.T) {
	repo := testutil.NewMemoryUserRepository()
	uc := newTestUseCase(repo)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got []*entity.UserInfo
	err := uc.Watch(ctx, testUID, func(user *entity.UserInfo) error {
		got = append(got, user)
		if user == nil {
			go func() {
				_, _ = uc.Migrate(context.Background(), testUID)
			}()
			return nil
		}
		cancel()
		return nil
	})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0])
	assert.Equal(t, entity.NewDefaultUserInfo(testUID), got[1])
}
