package mail

import (
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeMessage(t *testing.T) {
	from := sgmail.NewEmail("Limelight", "hello@limelight.fm")
	msg := welcomeMessage(from, "jo@example.com", "Jo")

	assert.Equal(t, welcomeSubject, msg.Subject)
	assert.Equal(t, "hello@limelight.fm", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	require.Len(t, msg.Personalizations[0].To, 1)
	assert.Equal(t, "jo@example.com", msg.Personalizations[0].To[0].Address)
	require.Len(t, msg.Content, 2)
	assert.Contains(t, msg.Content[0].Value, "Welcome to Limelight, Jo!")
}

func TestWelcomeMessageWithoutName(t *testing.T) {
	from := sgmail.NewEmail("Limelight", "hello@limelight.fm")
	msg := welcomeMessage(from, "jo@example.com", "")

	assert.Contains(t, msg.Content[1].Value, "Welcome to Limelight, there!")
}
