package types

import (
	"context"
	"testing"
)

func TestWithRequestID_GetRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-abc")
	if got := GetRequestID(ctx); got != "req-abc" {
		t.Errorf("GetRequestID() = %q, want %q", got, "req-abc")
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID() on empty context = %q, want empty", got)
	}
}
