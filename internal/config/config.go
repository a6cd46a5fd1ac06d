package config

import (
	"time"

	"github.com/scogranger/ec2-incident-responder/internal/utils/env"
)

type DeliveryTarget string

const (
	DeliverySES DeliveryTarget = "ses"
	DeliverySNS DeliveryTarget = "sns"
)

// Config holds every runtime setting, resolved once at process start and
// passed by reference into component constructors. Only AWS_REGION is
// required up front; report settings are validated by the operation that
// uses them so the responder can run without reporting configured.
type Config struct {
	AWSRegion string

	IncidentTable  string
	DryRunOnly     bool
	EC2CallTimeout time.Duration

	ReportBucket   string
	ReportPrefix   string
	ReportDelivery DeliveryTarget
	SESSender      string
	SESRecipients  []string
	SNSTopicARN    string
}

func Load() (*Config, error) {
	region, err := env.GetRequired("AWS_REGION", env.ParseNonEmptyString)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AWSRegion:      region,
		IncidentTable:  env.Get("INCIDENT_TABLE_NAME", "incident_events", env.ParseNonEmptyString),
		DryRunOnly:     env.Get("DRY_RUN_ONLY", true, env.ParseBool),
		EC2CallTimeout: env.Get("EC2_CALL_TIMEOUT", 10*time.Second, env.ParseDuration),
		ReportBucket:   env.Get("REPORT_BUCKET_NAME", "", env.ParseString),
		ReportPrefix:   env.Get("REPORT_PREFIX", "daily-reports/", env.ParseNonEmptyString),
		ReportDelivery: DeliveryTarget(env.Get("REPORT_DELIVERY", string(DeliverySES), env.ParseNonEmptyString)),
		SESSender:      env.Get("SES_SENDER", "", env.ParseString),
		SESRecipients:  env.Get("SES_RECIPIENTS", nil, env.ParseCSV),
		SNSTopicARN:    env.Get("SNS_TOPIC_ARN", "", env.ParseString),
	}

	return cfg, nil
}
