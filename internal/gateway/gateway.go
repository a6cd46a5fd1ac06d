// Package gateway performs capability-scoped EC2 actions behind a
// two-phase dry-run/apply protocol.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/scogranger/ec2-incident-responder/internal/gateway")

// EC2 reports a passing dry run as an error carrying this code.
const dryRunOperationCode = "DryRunOperation"

// Action identifies a mutating EC2 operation the gateway can take.
type Action string

const (
	ActionReboot Action = "reboot"
	ActionStart  Action = "start"
)

// EC2API defines the EC2 operations required by the gateway.
type EC2API interface {
	RebootInstances(
		ctx context.Context,
		input *ec2.RebootInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.RebootInstancesOutput, error)

	StartInstances(
		ctx context.Context,
		input *ec2.StartInstancesInput,
		optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
}

// DryRunError reports a dry run that did not come back with the EC2
// would-succeed sentinel: missing permission, invalid target, or a call
// that never completed. The underlying cause is preserved verbatim.
type DryRunError struct {
	Action     Action
	InstanceID string
	Err        error
}

func (e *DryRunError) Error() string {
	return fmt.Sprintf("dry run %s on %s: %v", e.Action, e.InstanceID, e.Err)
}

func (e *DryRunError) Unwrap() error {
	return e.Err
}

// Gateway issues reboot/start actions against single EC2 instances. Every
// call is bounded by a per-call timeout; an ambiguous result (timeout,
// transport failure) is a failure, never an implicit success.
type Gateway struct {
	client      EC2API
	callTimeout time.Duration
	logger      *slog.Logger
}

// New creates a Gateway. callTimeout bounds each DryRun and Apply call
// independently.
func New(client EC2API, callTimeout time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		client:      client,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// DryRun validates that the action would succeed against the instance
// without causing any effect. A nil return means EC2 confirmed the action
// would succeed; any other outcome is returned as a *DryRunError.
func (g *Gateway) DryRun(ctx context.Context, action Action, instanceID string) error {
	ctx, span := tracer.Start(ctx, "gateway.dryrun")
	defer span.End()
	span.SetAttributes(
		attribute.String("ec2.action", string(action)),
		attribute.String("ec2.instanceID", instanceID),
	)

	err := g.issue(ctx, action, instanceID, true)
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == dryRunOperationCode {
		return nil
	}

	g.logger.WarnContext(
		ctx,
		"dry run rejected",
		slog.String("action", string(action)),
		slog.String("instanceID", instanceID),
		slog.String("error", err.Error()),
	)

	return &DryRunError{Action: action, InstanceID: instanceID, Err: err}
}

// Apply issues the action for real. Callers must have passed DryRun for
// the same action in the same attempt; Apply itself performs no check.
func (g *Gateway) Apply(ctx context.Context, action Action, instanceID string) error {
	ctx, span := tracer.Start(ctx, "gateway.apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("ec2.action", string(action)),
		attribute.String("ec2.instanceID", instanceID),
	)

	if err := g.issue(ctx, action, instanceID, false); err != nil {
		return fmt.Errorf("cannot %s instance %s: %w", action, instanceID, err)
	}

	g.logger.InfoContext(
		ctx,
		"action applied",
		slog.String("action", string(action)),
		slog.String("instanceID", instanceID),
	)

	return nil
}

func (g *Gateway) issue(ctx context.Context, action Action, instanceID string, dryRun bool) error {
	ctx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	switch action {
	case ActionReboot:
		_, err := g.client.RebootInstances(ctx, &ec2.RebootInstancesInput{
			InstanceIds: []string{instanceID},
			DryRun:      aws.Bool(dryRun),
		})
		return err

	case ActionStart:
		_, err := g.client.StartInstances(ctx, &ec2.StartInstancesInput{
			InstanceIds: []string{instanceID},
			DryRun:      aws.Bool(dryRun),
		})
		return err

	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}
