package remedy

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/scogranger/ec2-incident-responder/internal/gateway"
)

// ActionGatewayMock is a mock implementation of the ActionGateway interface.
type ActionGatewayMock struct {
	mock.Mock
}

func (m *ActionGatewayMock) DryRun(ctx context.Context, action gateway.Action, instanceID string) error {
	args := m.Called(ctx, action, instanceID)
	return args.Error(0)
}

func (m *ActionGatewayMock) Apply(ctx context.Context, action gateway.Action, instanceID string) error {
	args := m.Called(ctx, action, instanceID)
	return args.Error(0)
}
