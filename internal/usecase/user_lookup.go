package usecase

import (
	"context"

	"limelight/internal/domain/entity"
)

// UserLookup memoizes user reads for one request. It must not be shared
// between requests; it is not safe for concurrent use.
type UserLookup struct {
	users *UserUseCase
	byID  map[string]*entity.UserInfo
	byAny map[string]*entity.UserInfo
}

func newUserLookup(users *UserUseCase) *UserLookup {
	return &UserLookup{
		users: users,
		byID:  make(map[string]*entity.UserInfo),
		byAny: make(map[string]*entity.UserInfo),
	}
}

func (l *UserLookup) FetchByID(ctx context.Context, id string) (*entity.UserInfo, error) {
	if user, ok := l.byID[id]; ok {
		return user, nil
	}

	user, err := l.users.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	l.byID[id] = user
	return user, nil
}

func (l *UserLookup) FetchByIDOrHandle(ctx context.Context, identifier string) (*entity.UserInfo, error) {
	if isPrimaryKey(identifier) {
		return l.FetchByID(ctx, identifier)
	}
	if user, ok := l.byAny[identifier]; ok {
		return user, nil
	}

	user, err := l.users.FetchByIDOrHandle(ctx, identifier)
	if err != nil {
		return nil, err
	}

	l.byAny[identifier] = user
	return user, nil
}

// Forget drops cached entries for uid after a write in the same request.
func (l *UserLookup) Forget(uid string) {
	delete(l.byID, uid)
	for key, user := range l.byAny {
		if user != nil && user.UID == uid {
			delete(l.byAny, key)
		}
	}
}
