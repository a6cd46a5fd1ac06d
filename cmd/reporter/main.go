package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/scogranger/ec2-incident-responder/internal/config"
	"github.com/scogranger/ec2-incident-responder/internal/incident"
	"github.com/scogranger/ec2-incident-responder/internal/report"
	"github.com/scogranger/ec2-incident-responder/internal/telemetry"
)

func main() {
	startTime := time.Now()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	logger.Info("starting daily incident reporter")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("cannot load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("cannot load aws config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	store := incident.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.IncidentTable, logger)

	sender, err := report.NewSender(awsCfg, cfg)
	if err != nil {
		logger.Error("cannot create report sender", slog.String("error", err.Error()))
		os.Exit(1)
	}

	archiver := report.NewS3Archiver(s3.NewFromConfig(awsCfg), cfg)

	tp, err := telemetry.NewTracerProvider(ctx)
	if err != nil {
		logger.Error("cannot initialize tracer provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("cannot shutdown tracer provider", slog.String("error", err.Error()))
		}
	}()

	logger.Info(
		"started daily incident reporter",
		slog.String("table", cfg.IncidentTable),
		slog.String("delivery", string(cfg.ReportDelivery)),
		slog.String("bucket", cfg.ReportBucket),
		slog.Float64("initDurationSec", time.Since(startTime).Seconds()),
	)

	r := report.NewReporter(store, sender, archiver, logger)
	lambda.Start(
		otellambda.InstrumentHandler(
			r.HandleRequest,
			otellambda.WithTracerProvider(tp),
			otellambda.WithFlusher(tp)),
	)
}
