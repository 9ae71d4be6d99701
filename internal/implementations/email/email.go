package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"natours/internal/core/domain/user"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func passwordResetSubject(ttl time.Duration) string {
	return fmt.Sprintf("Your password reset token (valid for %s)", formatTTL(ttl))
}

func formatTTL(ttl time.Duration) string {
	switch {
	case ttl%time.Hour == 0:
		return fmt.Sprintf("%d h", ttl/time.Hour)
	case ttl%time.Minute == 0:
		return fmt.Sprintf("%d min", ttl/time.Minute)
	default:
		return ttl.String()
	}
}

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type EmailSender struct {
	ses sesClient
	// This address must be verified with Amazon SES.
	sender               string
	passwordResetBaseUrl url.URL
	passwordResetTTL     time.Duration
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetBaseUrl url.URL,
	passwordResetTTL time.Duration,
) *EmailSender {
	return &EmailSender{
		ses:                  ses.NewFromConfig(awsConfig),
		sender:               sender,
		passwordResetBaseUrl: passwordResetBaseUrl,
		passwordResetTTL:     passwordResetTTL,
	}
}

func (s *EmailSender) SendPasswordResetToken(ctx context.Context, u user.User, token user.PasswordResetToken) error {
	if u.Email == "" {
		return fmt.Errorf("email is not set for user %s", u.ID)
	}

	resetUrl := s.passwordResetBaseUrl.JoinPath(string(token)).String()
	body := fmt.Sprintf(
		"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s.\n"+
			"If you didn't forget your password, please ignore this email!",
		resetUrl,
	)

	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(s.sender),
			Destination: &types.Destination{
				ToAddresses: []string{string(u.Email)},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(passwordResetSubject(s.passwordResetTTL))},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	)
	return err
}
