package types

// Telemetry metric names for CloudWatch.
// All components MUST use these constants.
const (
	// Metric Names
	MetricAPILatency      = "APILatency"
	MetricAPIRequestCount = "APIRequestCount"
	MetricDetection       = "Detection"
	MetricConfidence      = "DetectionConfidence"
	MetricAlertSent       = "AlertSent"
	MetricAlertFailed     = "AlertFailed"

	// Dimension Keys
	DimEndpoint   = "Endpoint"
	DimMethod     = "Method"
	DimStatusCode = "StatusCode"
	DimStatus     = "Status"
	DimProvider   = "Provider"

	// Metric Namespace
	MetricNamespace = "FlareSentinel"
)
