package report

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/mock"

	"github.com/scogranger/ec2-incident-responder/internal/incident"
)

// SESAPIMock is a mock implementation of the SESAPI interface.
type SESAPIMock struct {
	mock.Mock
}

func (m *SESAPIMock) SendEmail(ctx context.Context, input *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, input, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

// SNSAPIMock is a mock implementation of the SNSAPI interface.
type SNSAPIMock struct {
	mock.Mock
}

func (m *SNSAPIMock) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, input, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

// S3APIMock is a mock implementation of the S3API interface.
type S3APIMock struct {
	mock.Mock
}

func (m *S3APIMock) PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, input, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

// IncidentSourceMock is a mock implementation of the IncidentSource interface.
type IncidentSourceMock struct {
	mock.Mock
}

func (m *IncidentSourceMock) IncidentsForDate(ctx context.Context, date string) ([]incident.Record, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]incident.Record), args.Error(1)
}

// SenderMock is a mock implementation of the Sender interface.
type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, subject, body string) (string, error) {
	args := m.Called(ctx, subject, body)
	return args.String(0), args.Error(1)
}

// ArchiverMock is a mock implementation of the Archiver interface.
type ArchiverMock struct {
	mock.Mock
}

func (m *ArchiverMock) Upload(ctx context.Context, date, body string) (string, error) {
	args := m.Called(ctx, date, body)
	return args.String(0), args.Error(1)
}
