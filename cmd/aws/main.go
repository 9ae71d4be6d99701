package main

import (
	"context"
	"fmt"
	"natours/internal/config"
	c "natours/internal/core/domain/common"
	"natours/internal/core/domain/user"
	"natours/internal/implementations/email"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

const usage = `usage:
  aws verify-sender          ask SES to verify AWS_EMAIL_SENDER
  aws send-test-email <to>   send a password reset email with a dummy token`

func main() {
	if len(os.Args) < 2 {
		exit(fmt.Errorf("missing command\n%s", usage))
	}

	cfg, err := config.Load()
	if err != nil {
		exit(err)
	}
	awsCfg, err := loadAwsConfig(cfg)
	if err != nil {
		exit(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "verify-sender":
		err = VerifySender(ctx, awsCfg, cfg.AwsEmailSender)
	case "send-test-email":
		if len(os.Args) != 3 {
			exit(fmt.Errorf("missing recipient\n%s", usage))
		}
		err = SendTestEmail(ctx, awsCfg, cfg, os.Args[2])
	default:
		err = fmt.Errorf("unknown command %q\n%s", os.Args[1], usage)
	}
	if err != nil {
		exit(err)
	}
	fmt.Println("Success.")
}

func loadAwsConfig(cfg *config.Config) (aws.Config, error) {
	return awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
}

// VerifySender makes SES send a verification link to the sender address.
func VerifySender(ctx context.Context, awsCfg aws.Config, sender string) error {
	svc := ses.NewFromConfig(awsCfg)
	_, err := svc.VerifyEmailIdentity(ctx, &ses.VerifyEmailIdentityInput{
		EmailAddress: aws.String(sender),
	})
	return err
}

func SendTestEmail(ctx context.Context, awsCfg aws.Config, cfg *config.Config, to string) error {
	sender := email.NewEmailSender(
		awsCfg,
		cfg.AwsEmailSender,
		cfg.PasswordResetBaseURL,
		cfg.PasswordResetTTL,
	)
	return sender.SendPasswordResetToken(
		ctx,
		user.User{ID: "test", Email: c.NewEmail(to)},
		user.PasswordResetToken("test-token"),
	)
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
