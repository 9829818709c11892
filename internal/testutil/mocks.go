package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"limelight/internal/domain/entity"
)

// MemoryUserRepository implements repository.UserRepository over a map. Legacy
// documents are stored already decoded, as the Firestore repository returns them.
type MemoryUserRepository struct {
	mu       sync.Mutex
	docs     map[string]*entity.UserRecord
	watchers map[string][]chan struct{}

	Err                 error
	GetByIDCalls        int
	FindByUsernameCalls int
	SetCalls            int
	MergeCalls          int
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		docs:     make(map[string]*entity.UserRecord),
		watchers: make(map[string][]chan struct{}),
	}
}

func (r *MemoryUserRepository) SeedLegacy(id string, data map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = &entity.UserRecord{ID: id, Legacy: entity.LegacyUserFromMap(data)}
}

func (r *MemoryUserRepository) SeedUser(id string, user *entity.UserInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id] = &entity.UserRecord{ID: id, Info: copyUser(user)}
}

// StoredLegacy returns a copy of the unmigrated document under id, or nil.
func (r *MemoryUserRepository) StoredLegacy(id string) *entity.LegacyUser {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Legacy == nil {
		return nil
	}
	return copyLegacy(doc.Legacy)
}

// Stored returns a copy of the canonical document under id, or nil.
func (r *MemoryUserRepository) Stored(id string) *entity.UserInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.Info == nil {
		return nil
	}
	return copyUser(doc.Info)
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*entity.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GetByIDCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.get(id), nil
}

func (r *MemoryUserRepository) FindByUsername(ctx context.Context, username string) (*entity.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FindByUsernameCalls++
	if r.Err != nil {
		return nil, r.Err
	}

	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		doc := r.docs[id]
		if doc.Info != nil && doc.Info.Profile.Username == username {
			return r.get(id), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) Set(ctx context.Context, id string, user *entity.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SetCalls++
	if r.Err != nil {
		return r.Err
	}
	r.docs[id] = &entity.UserRecord{ID: id, Info: copyUser(user)}
	r.notify(id)
	return nil
}

func (r *MemoryUserRepository) MergeProfile(ctx context.Context, id string, patch entity.ProfilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.MergeCalls++
	if r.Err != nil {
		return r.Err
	}

	doc, ok := r.docs[id]
	if !ok {
		return nil
	}
	switch {
	case doc.Info != nil:
		doc.Info.Profile = patch.ApplyTo(doc.Info.Profile)
	case doc.Legacy != nil:
		doc.Legacy.ApplyPatch(patch)
	}
	r.notify(id)
	return nil
}

func (r *MemoryUserRepository) Watch(ctx context.Context, id string, fn func(*entity.UserRecord) error) error {
	ch := make(chan struct{}, 16)
	r.mu.Lock()
	r.watchers[id] = append(r.watchers[id], ch)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		chans := r.watchers[id]
		for i, c := range chans {
			if c == ch {
				r.watchers[id] = append(chans[:i], chans[i+1:]...)
				break
			}
		}
	}()

	for {
		r.mu.Lock()
		record := r.get(id)
		r.mu.Unlock()

		if err := fn(record); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ch:
		}
	}
}

func (r *MemoryUserRepository) get(id string) *entity.UserRecord {
	doc, ok := r.docs[id]
	if !ok {
		return nil
	}
	out := &entity.UserRecord{ID: doc.ID}
	if doc.Info != nil {
		out.Info = copyUser(doc.Info)
	}
	if doc.Legacy != nil {
		out.Legacy = copyLegacy(doc.Legacy)
	}
	return out
}

func (r *MemoryUserRepository) notify(id string) {
	for _, ch := range r.watchers[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func copyUser(user *entity.UserInfo) *entity.UserInfo {
	c := *user
	return &c
}

func copyLegacy(legacy *entity.LegacyUser) *entity.LegacyUser {
	c := *legacy
	c.Profile = copyMap(legacy.Profile)
	return &c
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]interface{}); ok {
			v = copyMap(nested)
		}
		out[k] = v
	}
	return out
}

// MemoryCommentRepository implements repository.CommentRepository.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	Comments []*entity.UserComment
	Err      error
}

func (r *MemoryCommentRepository) Create(ctx context.Context, comment *entity.UserComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	c := *comment
	r.Comments = append(r.Comments, &c)
	return nil
}

func (r *MemoryCommentRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*entity.UserComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	out := []*entity.UserComment{}
	for _, c := range r.Comments {
		if c.ProfileID == profileID {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MemoryStorage implements service.FileUploadService.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	BaseURL string
	Err     error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		Objects: make(map[string][]byte),
		BaseURL: "https://storage.googleapis.com/test-bucket/",
	}
}

func (s *MemoryStorage) UploadObject(ctx context.Context, objectName, contentType string, file io.Reader) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[objectName] = buf.Bytes()
	return s.BaseURL + objectName, nil
}

func (s *MemoryStorage) DeleteFile(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, fileURL)
	return nil
}

type MockAuthDirectory struct {
	mock.Mock
}

func (m *MockAuthDirectory) GetContact(ctx context.Context, uid string) (string, string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.String(1), args.Error(2)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(ctx context.Context, toAddress, name string) error {
	args := m.Called(ctx, toAddress, name)
	return args.Error(0)
}
