package utils

import (
	"context"
	"testing"
)

func TestLogContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if got := GetCorrelationID(ctx); got != "" {
		t.Errorf("GetCorrelationID(empty) = %q, want empty", got)
	}
	if got := GetCreatorID(ctx); got != "" {
		t.Errorf("GetCreatorID(empty) = %q, want empty", got)
	}

	ctx = WithCorrelationID(ctx, "corr-1")
	ctx = WithCreatorID(ctx, "c1")

	if got := GetCorrelationID(ctx); got != "corr-1" {
		t.Errorf("GetCorrelationID() = %q, want corr-1", got)
	}
	if got := GetCreatorID(ctx); got != "c1" {
		t.Errorf("GetCreatorID() = %q, want c1", got)
	}
}
