package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/scogranger/ec2-incident-responder/internal/config"
)

// Sender delivers a rendered report and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, subject, body string) (string, error)
}

// NewSender creates a Sender implementation based on the configured
// report delivery target. Supported targets: ses, sns.
func NewSender(awsCfg aws.Config, cfg *config.Config) (Sender, error) {
	switch cfg.ReportDelivery {
	case config.DeliverySES:
		client := ses.NewFromConfig(awsCfg)
		return NewSESSender(client, cfg), nil

	case config.DeliverySNS:
		client := sns.NewFromConfig(awsCfg)
		return NewSNSSender(client, cfg), nil

	default:
		return nil, fmt.Errorf("unknown report delivery target: %s", cfg.ReportDelivery)
	}
}

// SESAPI defines the SES operations required for report delivery.
type SESAPI interface {
	SendEmail(
		ctx context.Context,
		input *ses.SendEmailInput,
		optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender emails the report as plain text to the configured recipients.
type SESSender struct {
	client SESAPI
	config *config.Config
}

func NewSESSender(client SESAPI, config *config.Config) *SESSender {
	return &SESSender{
		client: client,
		config: config,
	}
}

func (s *SESSender) Send(ctx context.Context, subject, body string) (string, error) {
	if s.config.SESSender == "" {
		return "", errors.New("SES_SENDER is not configured")
	}
	if len(s.config.SESRecipients) == 0 {
		return "", errors.New("SES_RECIPIENTS is not configured or empty")
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.config.SESSender),
		Destination: &sestypes.Destination{
			ToAddresses: s.config.SESRecipients,
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &sestypes.Body{
				Text: &sestypes.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("cannot send report email: %w", err)
	}

	return aws.ToString(out.MessageId), nil
}

// SNSAPI defines the SNS operations required for report delivery.
type SNSAPI interface {
	Publish(
		ctx context.Context,
		input *sns.PublishInput,
		optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes the report to a topic, for teams that route
// reports through SNS subscriptions instead of direct email.
type SNSSender struct {
	client SNSAPI
	config *config.Config
}

func NewSNSSender(client SNSAPI, config *config.Config) *SNSSender {
	return &SNSSender{
		client: client,
		config: config,
	}
}

func (s *SNSSender) Send(ctx context.Context, subject, body string) (string, error) {
	if s.config.SNSTopicARN == "" {
		return "", errors.New("SNS_TOPIC_ARN is not configured")
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.config.SNSTopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("cannot publish report to %q: %w", s.config.SNSTopicARN, err)
	}

	return aws.ToString(out.MessageId), nil
}
