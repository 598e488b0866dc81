package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer sends mail through AWS SES.
type SESMailer struct {
	client      *ses.Client
	fromAddress string
}

// NewSESMailer loads the default AWS credential chain for the given region.
func NewSESMailer(region, fromAddress string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client:      ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
	}, nil
}

// SendPasswordResetEmail sends the reset link. The link expires in 30
// minutes; the body says so.
func (m *SESMailer) SendPasswordResetEmail(email, name, resetLink string) error {
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
    <p>Hello %s,</p>
    <p>We received a request to reset your Citizen Engagement System password.
    Click the link below to choose a new one:</p>
    <p><a href="%s">Reset your password</a></p>
    <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
    <p>This link expires in 30 minutes. If you didn't request a password
    reset, you can ignore this email and your password will stay unchanged.</p>
</body>
</html>
`, name, resetLink, resetLink)

	textBody := fmt.Sprintf(`Hello %s,

We received a request to reset your Citizen Engagement System password.
Open the link below to choose a new one:

%s

This link expires in 30 minutes. If you didn't request a password reset,
you can ignore this email and your password will stay unchanged.
`, name, resetLink)

	input := &ses.SendEmailInput{
		Source: aws.String(m.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Reset Your Citizen Engagement System Password"),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody)},
				Text: &types.Content{Data: aws.String(textBody)},
			},
		},
	}

	_, err := m.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}
