package telemetry

import (
	"context"
	"testing"
)

func TestInitTracerWithoutCollectorIsNoop(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "cv-matchmaker", "test", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := GetTracer("test").Start(context.Background(), "noop")
	span.SetAttributes(String("key", "value"), Int("count", 1))
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
}
