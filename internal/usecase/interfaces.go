package usecase

import (
	"context"

	"limelight/internal/domain/entity"
)

// AuthDirectory looks up account details held by the auth provider.
type AuthDirectory interface {
	GetContact(ctx context.Context, uid string) (email string, displayName string, err error)
}

type WelcomeMailer interface {
	SendWelcome(ctx context.Context, toAddress, name string) error
}

type MetricsRecorder interface {
	IncMigration(transition string)
	IncLookup(kind, outcome string)
}

// UserReader resolves canonical user records. Both UserUseCase and the
// request-scoped UserLookup implement it.
type UserReader interface {
	FetchByID(ctx context.Context, id string) (*entity.UserInfo, error)
	FetchByIDOrHandle(ctx context.Context, identifier string) (*entity.UserInfo, error)
}

type noopMetrics struct{}

func (noopMetrics) IncMigration(string)      {}
func (noopMetrics) IncLookup(string, string) {}
