package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"limelight/pkg/logger"
)

const welcomeSubject = "Welcome to Limelight - Revolutionizing Music Discovery"

type SendGridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGridMailer(apiKey, fromAddress, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *SendGridMailer) SendWelcome(ctx context.Context, toAddress, name string) error {
	message := welcomeMessage(m.from, toAddress, name)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected welcome email: status %d", resp.StatusCode)
	}

	logger.Info("Welcome email sent to %s (status %d)", toAddress, resp.StatusCode)
	return nil
}

func welcomeMessage(from *sgmail.Email, toAddress, name string) *sgmail.SGMailV3 {
	greeting := name
	if greeting == "" {
		greeting = "there"
	}

	plain := fmt.Sprintf("Welcome to Limelight, %s!\n\n"+
		"Revolutionizing music discovery through algorithmic artist discovery. "+
		"We're thrilled to have you join us!", greeting)
	html := fmt.Sprintf("<p><strong>Welcome to Limelight, %s!</strong></p>"+
		"<p>Revolutionizing music discovery through algorithmic artist discovery. "+
		"We're thrilled to have you join us!</p>", greeting)

	return sgmail.NewSingleEmail(from, welcomeSubject, sgmail.NewEmail(name, toAddress), plain, html)
}
