package sns

import (
	"context"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/phone-otp-api/internal/config"
)

// SMSSender delivers a verification code out-of-band.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

type sender struct {
	client *sns.Client
}

// NewSender creates the AWS SNS backed sender. The destination must be in
// E.164 form, which is what phone.Normalize produces.
func NewSender(cfg *config.Config) (SMSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *sender) Send(ctx context.Context, to, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	return err
}

// LogSender is the stand-in used when no SMS transport is configured.
// It logs that a send happened but never the message body, since the body
// contains the code.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (l *LogSender) Send(_ context.Context, to, _ string) error {
	slog.Info("sms delivery skipped (no transport configured)", "to", to)
	return nil
}
