package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/scogranger/ec2-incident-responder/internal/incident"
)

var tracer = otel.Tracer("github.com/scogranger/ec2-incident-responder/internal/report")

const dateLayout = "2006-01-02"

// IncidentSource reads the incident records a report is built from.
type IncidentSource interface {
	IncidentsForDate(ctx context.Context, date string) ([]incident.Record, error)
}

// DeliveryResult records the outcome of one delivery step. Delivery
// failures do not abort the run; they are surfaced here instead.
type DeliveryResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Result summarizes one reporting run.
type Result struct {
	Date      string         `json:"date"`
	Incidents int            `json:"incidents"`
	Email     DeliveryResult `json:"email_result"`
	Archive   DeliveryResult `json:"s3_result"`
}

// TriggerEvent is the reporter's invocation payload. A date may be given
// directly or inside an EventBridge-style detail block; it defaults to
// the current UTC date.
type TriggerEvent struct {
	Date   string `json:"date"`
	Detail struct {
		Date string `json:"date"`
	} `json:"detail"`
}

// Reporter builds the Markdown daily report, emails it and archives it.
type Reporter struct {
	source   IncidentSource
	sender   Sender
	archiver Archiver
	logger   *slog.Logger
}

func NewReporter(source IncidentSource, sender Sender, archiver Archiver, logger *slog.Logger) *Reporter {
	return &Reporter{
		source:   source,
		sender:   sender,
		archiver: archiver,
		logger:   logger,
	}
}

// HandleRequest is the Lambda entry point for the reporting path.
func (r *Reporter) HandleRequest(ctx context.Context, event TriggerEvent) (*Result, error) {
	date := event.Date
	if date == "" {
		date = event.Detail.Date
	}

	return r.Run(ctx, date)
}

// Run produces and delivers the report for a date ("" means today, UTC).
// A store read failure aborts the run; email and archive failures are
// captured in the result so one failing channel does not lose the other.
func (r *Reporter) Run(ctx context.Context, date string) (*Result, error) {
	ctx, span := tracer.Start(ctx, "report.run")
	defer span.End()

	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid report date %q: %w", date, err)
	}
	span.SetAttributes(attribute.String("report.date", date))

	incidents, err := r.source.IncidentsForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("cannot load incidents for %s: %w", date, err)
	}

	markdown := Markdown(date, incidents)
	subject := "Daily Cloud Incident Report - " + date

	result := &Result{Date: date, Incidents: len(incidents)}

	messageID, err := r.sender.Send(ctx, subject, markdown)
	if err != nil {
		result.Email = DeliveryResult{Status: "FAILED", Error: err.Error()}
		r.logger.ErrorContext(
			ctx,
			"cannot deliver report",
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
	} else {
		result.Email = DeliveryResult{Status: "SUCCESS", Detail: messageID}
	}

	key, err := r.archiver.Upload(ctx, date, markdown)
	if err != nil {
		result.Archive = DeliveryResult{Status: "FAILED", Error: err.Error()}
		r.logger.ErrorContext(
			ctx,
			"cannot archive report",
			slog.String("date", date),
			slog.String("error", err.Error()),
		)
	} else {
		result.Archive = DeliveryResult{Status: "SUCCESS", Detail: key}
		r.logger.InfoContext(
			ctx,
			"daily report archived",
			slog.String("date", date),
			slog.String("key", key),
		)
	}

	return result, nil
}
