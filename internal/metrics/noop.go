package metrics

import (
	"context"
	"time"

	"flaresentinel/internal/types"
)

// Noop discards all metrics. It is used when METRICS_ENABLED is false.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) RecordRequest(string, string, string, time.Duration) {}

func (Noop) RecordDetection(context.Context, types.SafetyStatus, float64) {}

func (Noop) RecordAlert(context.Context, string, error) {}
