// Package remedy selects and runs the remediation handler for a
// classified alarm under the dry-run-first safety protocol.
package remedy

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/scogranger/ec2-incident-responder/internal/alarm"
	"github.com/scogranger/ec2-incident-responder/internal/gateway"
)

var tracer = otel.Tracer("github.com/scogranger/ec2-incident-responder/internal/remedy")

// Action values recorded on remediation outcomes.
const (
	ActionNoop          = "NOOP"
	ActionSkip          = "SKIP"
	ActionWouldReboot   = "WOULD_REBOOT"
	ActionReboot        = "REBOOT"
	ActionStartInstance = "START_INSTANCE"
	ActionFailed        = "FAILED"
)

// Outcome is the immutable result of one dispatch attempt.
type Outcome struct {
	RemediationType string `json:"remediation_type"`
	InstanceID      string `json:"instance_id,omitempty"`
	Action          string `json:"action"`
	Message         string `json:"message"`
}

// ActionGateway is the slice of the EC2 action gateway the dispatcher
// needs. A nil DryRun return means the action was validated against the
// live instance without effect.
type ActionGateway interface {
	DryRun(ctx context.Context, action gateway.Action, instanceID string) error
	Apply(ctx context.Context, action gateway.Action, instanceID string) error
}

// Dispatcher routes a remediation category to its handler. It is
// stateless across events and never returns an error: every gateway
// failure is converted into a FAILED outcome carrying the error text.
type Dispatcher struct {
	gw         ActionGateway
	dryRunOnly bool
	logger     *slog.Logger
}

// NewDispatcher creates a Dispatcher. When dryRunOnly is set, every
// mutating category stops at the would-succeed stage.
func NewDispatcher(gw ActionGateway, dryRunOnly bool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		gw:         gw,
		dryRunOnly: dryRunOnly,
		logger:     logger,
	}
}

// Dispatch runs the handler for the category and returns its outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, category alarm.Category, instanceID string) Outcome {
	ctx, span := tracer.Start(ctx, "remedy.dispatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("remedy.category", category.String()),
		attribute.String("ec2.instanceID", instanceID),
	)

	var outcome Outcome

	switch category {
	case alarm.CategoryHighCPU:
		outcome = d.handleHighCPU(ctx)
	case alarm.CategoryStatusCheckFailed:
		outcome = d.handleStatusCheckFailed(ctx, instanceID)
	case alarm.CategoryUnexpectedStop:
		outcome = d.handleUnexpectedStop(ctx, instanceID)
	default:
		outcome = Outcome{
			RemediationType: category.String(),
			Action:          ActionSkip,
			Message:         "no remediation implemented for event type: " + category.String(),
		}
	}

	span.SetAttributes(attribute.String("remedy.action", outcome.Action))
	d.logger.InfoContext(
		ctx,
		"remediation dispatched",
		slog.String("category", category.String()),
		slog.String("action", outcome.Action),
		slog.String("instanceID", instanceID),
	)

	return outcome
}

// handleHighCPU is informational only. High CPU is not remediated by
// mutating the instance, so the gateway is never touched.
func (d *Dispatcher) handleHighCPU(_ context.Context) Outcome {
	return Outcome{
		RemediationType: alarm.CategoryHighCPU.String(),
		Action:          ActionNoop,
		Message:         "high CPU alarm acknowledged; no instance mutation required",
	}
}

func (d *Dispatcher) handleStatusCheckFailed(ctx context.Context, instanceID string) Outcome {
	remediationType := alarm.CategoryStatusCheckFailed.String()

	if instanceID == "" {
		return Outcome{
			RemediationType: remediationType,
			Action:          ActionSkip,
			Message:         "no instance ID found in event",
		}
	}

	if err := d.gw.DryRun(ctx, gateway.ActionReboot, instanceID); err != nil {
		return Outcome{
			RemediationType: remediationType,
			InstanceID:      instanceID,
			Action:          ActionFailed,
			Message:         err.Error(),
		}
	}

	if d.dryRunOnly {
		return Outcome{
			RemediationType: remediationType,
			InstanceID:      instanceID,
			Action:          ActionWouldReboot,
			Message:         "dry run succeeded; real reboot skipped in dry-run-only mode",
		}
	}

	if err := d.gw.Apply(ctx, gateway.ActionReboot, instanceID); err != nil {
		return Outcome{
			RemediationType: remediationType,
			InstanceID:      instanceID,
			Action:          ActionFailed,
			Message:         err.Error(),
		}
	}

	return Outcome{
		RemediationType: remediationType,
		InstanceID:      instanceID,
		Action:          ActionReboot,
		Message:         fmt.Sprintf("instance %s rebooted due to failed status check", instanceID),
	}
}

// handleUnexpectedStop validates that a start would succeed but never
// performs one, regardless of dry-run-only mode. The real start is left
// to an operator; automated recovery is considered too uncertain for this
// event type.
func (d *Dispatcher) handleUnexpectedStop(ctx context.Context, instanceID string) Outcome {
	remediationType := alarm.CategoryUnexpectedStop.String()

	if instanceID == "" {
		return Outcome{
			RemediationType: remediationType,
			Action:          ActionFailed,
			Message:         "no instance ID found in event",
		}
	}

	if err := d.gw.DryRun(ctx, gateway.ActionStart, instanceID); err != nil {
		return Outcome{
			RemediationType: remediationType,
			InstanceID:      instanceID,
			Action:          ActionFailed,
			Message:         err.Error(),
		}
	}

	return Outcome{
		RemediationType: remediationType,
		InstanceID:      instanceID,
		Action:          ActionStartInstance,
		Message:         "start validated by dry run; automatic start is disabled, operator action required",
	}
}
