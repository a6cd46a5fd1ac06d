// Package handler wires classification, dispatch and persistence into the
// per-event remediation pipeline.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/scogranger/ec2-incident-responder/internal/alarm"
	"github.com/scogranger/ec2-incident-responder/internal/incident"
	"github.com/scogranger/ec2-incident-responder/internal/remedy"
)

// Dispatcher runs the remediation handler for a classified alarm.
type Dispatcher interface {
	Dispatch(ctx context.Context, category alarm.Category, instanceID string) remedy.Outcome
}

// Recorder appends one incident record per dispatch attempt.
type Recorder interface {
	Append(
		ctx context.Context,
		category alarm.Category,
		instanceID string,
		outcome remedy.Outcome,
		rawEvent json.RawMessage,
	) (*incident.Record, error)
}

// Response is the invocation result returned to the Lambda runtime. Body
// carries the JSON-encoded responseBody.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	EventType   string         `json:"event_type"`
	Remediation remedy.Outcome `json:"remediation"`
}

type EventHandler struct {
	dispatcher Dispatcher
	recorder   Recorder
	logger     *slog.Logger
}

func NewEventHandler(dispatcher Dispatcher, recorder Recorder, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
	}
}

// HandleRequest processes one alarm state change event: classify, extract
// the target instance, dispatch remediation, record the attempt. A
// malformed payload classifies as UNKNOWN and is still recorded; only a
// persistence failure fails the invocation.
func (h *EventHandler) HandleRequest(ctx context.Context, event events.CloudWatchEvent) (Response, error) {
	var detail alarm.Detail
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		h.logger.WarnContext(
			ctx,
			"cannot parse event detail; treating event as unclassifiable",
			slog.String("error", err.Error()),
		)
	}

	category := alarm.Classify(detail)
	instanceID := alarm.ExtractInstanceID(detail)

	h.logger.InfoContext(
		ctx,
		"alarm event classified",
		slog.String("alarmName", detail.AlarmName),
		slog.String("category", category.String()),
		slog.String("instanceID", instanceID),
	)

	outcome := h.dispatcher.Dispatch(ctx, category, instanceID)

	rawEvent, err := json.Marshal(event)
	if err != nil {
		rawEvent = nil
	}

	if _, err := h.recorder.Append(ctx, category, instanceID, outcome, rawEvent); err != nil {
		h.logger.ErrorContext(
			ctx,
			"cannot record incident",
			slog.String("category", category.String()),
			slog.String("error", err.Error()),
		)
		return Response{}, fmt.Errorf("cannot record incident: %w", err)
	}

	body, err := json.Marshal(responseBody{
		EventType:   category.String(),
		Remediation: outcome,
	})
	if err != nil {
		return Response{}, fmt.Errorf("cannot marshal response body: %w", err)
	}

	return Response{StatusCode: 200, Body: string(body)}, nil
}
