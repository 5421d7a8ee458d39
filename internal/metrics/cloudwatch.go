// Package metrics publishes request, detection and alert telemetry to
// CloudWatch. Publishing is best effort: failures are logged and never
// surface to callers.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/sony/gobreaker/v2"

	"flaresentinel/internal/config"
	"flaresentinel/internal/types"
)

// publishTimeout bounds a single PutMetricData call.
const publishTimeout = 2 * time.Second

// Recorder is the full set of telemetry hooks used by the service.
type Recorder interface {
	RecordRequest(method, endpoint, status string, duration time.Duration)
	RecordDetection(ctx context.Context, status types.SafetyStatus, confidence float64)
	RecordAlert(ctx context.Context, provider string, err error)
}

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

var _ Recorder = (*CloudWatchPublisher)(nil)

// CloudWatchPublisher emits metrics through a circuit breaker so an
// unreachable CloudWatch endpoint stops costing a timeout per request.
//
// Metrics emitted:
//   - APIRequestCount, APILatency: Dims {Method, Endpoint, StatusCode}
//   - Detection: Dims {Status}; DetectionConfidence: Dims {Status}
//   - AlertSent / AlertFailed: Dims {Provider}
type CloudWatchPublisher struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
	breaker   *gobreaker.CircuitBreaker[*cloudwatch.PutMetricDataOutput]
}

// NewCloudWatchPublisher creates a publisher for namespace. An empty namespace
// falls back to types.MetricNamespace.
func NewCloudWatchPublisher(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchPublisher {
	if namespace == "" {
		namespace = types.MetricNamespace
	}
	cb := gobreaker.NewCircuitBreaker[*cloudwatch.PutMetricDataOutput](gobreaker.Settings{
		Name:        "cloudwatch",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &CloudWatchPublisher{
		client:    client,
		namespace: namespace,
		logger:    logger,
		breaker:   cb,
	}
}

// NewFromConfig loads the AWS SDK configuration and returns a publisher. An
// empty AWSEndpointURL uses the regional endpoint; otherwise every call goes
// to the given URL (LocalStack).
func NewFromConfig(ctx context.Context, cfg config.ObservabilityConfig, logger types.Logger) (*CloudWatchPublisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
	return NewCloudWatchPublisher(client, cfg.MetricNamespace, logger), nil
}

// RecordRequest emits request count and latency for one HTTP request.
func (p *CloudWatchPublisher) RecordRequest(method, endpoint, status string, duration time.Duration) {
	dims := []cwtypes.Dimension{
		dimension(types.DimMethod, method),
		dimension(types.DimEndpoint, endpoint),
		dimension(types.DimStatusCode, status),
	}
	p.put(context.Background(), "request",
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPIRequestCount),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: dims,
		},
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricAPILatency),
			Value:      aws.Float64(float64(duration.Milliseconds())),
			Unit:       cwtypes.StandardUnitMilliseconds,
			Dimensions: dims,
		},
	)
}

// RecordDetection emits one Detection count and the reported confidence.
func (p *CloudWatchPublisher) RecordDetection(ctx context.Context, status types.SafetyStatus, confidence float64) {
	dims := []cwtypes.Dimension{dimension(types.DimStatus, string(status))}
	p.put(ctx, "detection",
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricDetection),
			Value:      aws.Float64(1),
			Unit:       cwtypes.StandardUnitCount,
			Dimensions: dims,
		},
		cwtypes.MetricDatum{
			MetricName: aws.String(types.MetricConfidence),
			Value:      aws.Float64(confidence),
			Unit:       cwtypes.StandardUnitNone,
			Dimensions: dims,
		},
	)
}

// RecordAlert emits AlertSent when err is nil and AlertFailed otherwise.
func (p *CloudWatchPublisher) RecordAlert(ctx context.Context, provider string, err error) {
	name := types.MetricAlertSent
	if err != nil {
		name = types.MetricAlertFailed
	}
	p.put(ctx, "alert", cwtypes.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{dimension(types.DimProvider, provider)},
	})
}

func (p *CloudWatchPublisher) put(ctx context.Context, kind string, data ...cwtypes.MetricDatum) {
	// Detach from request cancellation; the response may already be sent.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	}
	_, err := p.breaker.Execute(func() (*cloudwatch.PutMetricDataOutput, error) {
		return p.client.PutMetricData(ctx, input)
	})
	if err == nil {
		return
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return
	}
	p.logger.Error("failed to record "+kind+" metric",
		"error", err.Error(),
		"namespace", p.namespace,
		"datums", len(data),
	)
}

func dimension(name, value string) cwtypes.Dimension {
	return cwtypes.Dimension{Name: aws.String(name), Value: aws.String(value)}
}
