package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/programme-lv/participation/conf"
	"github.com/programme-lv/participation/evidence"
	"github.com/programme-lv/participation/facematch"
	"github.com/programme-lv/participation/http"
	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/metrics"
	"github.com/programme-lv/participation/participation"
	participationhttp "github.com/programme-lv/participation/participation/http"
	"github.com/programme-lv/participation/s3bucket"
	"github.com/programme-lv/participation/textmatch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := conf.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx := context.Background()
	awsCfg, err := conf.NewAwsConfig(ctx, cfg)
	if err != nil {
		log.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	s3Client := s3.NewFromConfig(awsCfg)
	uploads := s3bucket.NewS3Bucket(s3Client, cfg.UploadBucket)
	references := s3bucket.NewS3Bucket(s3Client, cfg.ReferenceBucket)
	warnAboutMissingReferences(ctx, log, references, cfg)

	rekog := facematch.NewRekognition(rekognition.NewFromConfig(awsCfg))
	matcherOpts := []facematch.Option{facematch.WithConcurrency(cfg.GalleryConcurrency)}
	if cfg.ReferenceCacheTTL > 0 {
		log.Info("caching reference face detections", "ttl", cfg.ReferenceCacheTTL)
		matcherOpts = append(matcherOpts,
			facematch.WithReferenceDetector(facematch.NewCachingDetector(rekog, cfg.ReferenceCacheTTL)))
	}
	faces := facematch.NewMatcher(rekog, rekog, matcherOpts...)

	names := textmatch.NewMatcher(textmatch.NewTextract(textract.NewFromConfig(awsCfg)))

	repo := participation.NewDynamoRecordRepo(dynamodb.NewFromConfig(awsCfg), cfg.DdbTable)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	srvcOpts := []participation.Option{participation.WithMetrics(m)}
	if cfg.DecisionQueueUrl != "" {
		srvcOpts = append(srvcOpts,
			participation.WithNotifier(participation.NewSqsNotifier(sqs.NewFromConfig(awsCfg), cfg.DecisionQueueUrl)))
	}

	srvc := participation.NewParticipationSrvc(
		evidence.NewCollector(uploads),
		faces,
		names,
		repo,
		participation.Evidence{
			Gallery:   cfg.ReferenceGallery(),
			Roster:    cfg.RosterImageRef(),
			Threshold: cfg.SimilarityThreshold,
		},
		srvcOpts...,
	)

	server := http.NewHttpServer(http.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		LogLevel:       logger.ParseLevel(cfg.LogLevel),
		JsonLogs:       cfg.LogFormat == "json",
		Metrics:        m.Handler(),
		StatsInterval:  time.Minute,
	}, participationhttp.NewParticipationHttpHandler(srvc))

	log.Info("starting server",
		"address", cfg.HttpAddr,
		"gallery", len(cfg.ReferenceImages),
		"threshold", cfg.SimilarityThreshold)
	err = server.Start(cfg.HttpAddr)
	log.Error("server stopped", "error", err)
	os.Exit(1)
}

// warnAboutMissingReferences only logs: a missing gallery image makes its
// comparisons fail, which the matcher already tolerates.
func warnAboutMissingReferences(ctx context.Context, log *slog.Logger, bucket *s3bucket.S3Bucket, cfg *conf.Config) {
	keys := append([]string{cfg.RosterImage}, cfg.ReferenceImages...)
	for _, key := range keys {
		exists, err := bucket.Exists(ctx, key)
		if err != nil {
			log.Warn("failed to check reference image", "key", key, "error", err)
			continue
		}
		if !exists {
			log.Warn("reference image is missing", "bucket", bucket.Name(), "key", key)
		}
	}
}
