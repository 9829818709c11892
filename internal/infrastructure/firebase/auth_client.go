package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

func (f *FirebaseAuthClient) VerifyIDToken(ctx context.Context, token string) (*auth.Token, error) {
	return f.client.VerifyIDToken(ctx, token)
}

// GetContact returns the email and display name the auth provider holds for uid.
func (f *FirebaseAuthClient) GetContact(ctx context.Context, uid string) (string, string, error) {
	user, err := f.client.GetUser(ctx, uid)
	if err != nil {
		return "", "", err
	}

	return user.Email, user.DisplayName, nil
}
