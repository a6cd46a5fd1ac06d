// Package incident persists remediation attempts as append-only records
// in DynamoDB and reads them back by date for reporting.
package incident

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/scogranger/ec2-incident-responder/internal/alarm"
	"github.com/scogranger/ec2-incident-responder/internal/remedy"
)

var tracer = otel.Tracer("github.com/scogranger/ec2-incident-responder/internal/incident")

// Timestamps use microsecond precision so the created_at prefix of a sort
// key is also a valid date-range filter value.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// Record is one persisted remediation attempt. Records are written once
// and never updated or deleted by this system.
type Record struct {
	PK              string `dynamodbav:"pk" json:"pk"`
	SK              string `dynamodbav:"sk" json:"sk"`
	EventType       string `dynamodbav:"event_type" json:"event_type"`
	InstanceID      string `dynamodbav:"instance_id" json:"instance_id"`
	RemediationType string `dynamodbav:"remediation_type" json:"remediation_type"`
	Action          string `dynamodbav:"action" json:"action"`
	Message         string `dynamodbav:"message" json:"message"`
	CreatedAt       string `dynamodbav:"created_at" json:"created_at"`
	RawEvent        string `dynamodbav:"raw_event" json:"raw_event"`
}

// DynamoDBAPI defines the DynamoDB operations required by the store.
type DynamoDBAPI interface {
	PutItem(
		ctx context.Context,
		input *dynamodb.PutItemInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)

	Scan(
		ctx context.Context,
		input *dynamodb.ScanInput,
		optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store appends incident records to a single DynamoDB table. Concurrent
// appends are safe without coordination: sort keys pair the timestamp with
// a fresh UUID, so same-millisecond writes never collide.
type Store struct {
	client DynamoDBAPI
	table  string
	logger *slog.Logger
}

// NewStore creates a Store backed by the given table.
func NewStore(client DynamoDBAPI, table string, logger *slog.Logger) *Store {
	return &Store{
		client: client,
		table:  table,
		logger: logger,
	}
}

// Append writes one record for a dispatch attempt. A write failure is
// returned to the caller; an attempt that cannot be recorded must fail
// the whole invocation rather than look successful.
func (s *Store) Append(
	ctx context.Context,
	category alarm.Category,
	instanceID string,
	outcome remedy.Outcome,
	rawEvent json.RawMessage,
) (*Record, error) {
	ctx, span := tracer.Start(ctx, "incident.append")
	defer span.End()
	span.SetAttributes(
		attribute.String("incident.category", category.String()),
		attribute.String("incident.action", outcome.Action),
	)

	now := time.Now().UTC().Format(timeLayout)

	record := &Record{
		PK:              "INCIDENT#" + category.String(),
		SK:              now + "#" + uuid.NewString(),
		EventType:       category.String(),
		InstanceID:      instanceID,
		RemediationType: outcome.RemediationType,
		Action:          outcome.Action,
		Message:         outcome.Message,
		CreatedAt:       now,
		RawEvent:        string(rawEvent),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal incident record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot put incident record to %q: %w", s.table, err)
	}

	s.logger.InfoContext(
		ctx,
		"incident recorded",
		slog.String("pk", record.PK),
		slog.String("sk", record.SK),
		slog.String("action", record.Action),
	)

	return record, nil
}

// IncidentsForDate returns every record whose created_at starts with the
// given YYYY-MM-DD date, across all partitions, sorted ascending by time.
// The scan follows LastEvaluatedKey until the table reports no more pages.
func (s *Store) IncidentsForDate(ctx context.Context, date string) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "incident.scan")
	defer span.End()
	span.SetAttributes(attribute.String("incident.date", date))

	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("created_at").BeginsWith(date)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("cannot build scan filter: %w", err)
	}

	var records []Record
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(s.table),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot scan incidents for %s: %w", date, err)
		}

		var page []Record
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("cannot unmarshal incident records: %w", err)
		}
		records = append(records, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	})

	return records, nil
}
