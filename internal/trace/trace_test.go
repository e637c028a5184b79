package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDisabledSpansAreNoops(t *testing.T) {
	if err := Init(false, nil); err != nil {
		t.Fatal(err)
	}
	if Enabled() {
		t.Fatal("expected tracing disabled")
	}
	ctx, span := StartSpan(context.Background(), "noop")
	span.End()
	if span.SpanContext().IsValid() {
		t.Error("expected invalid span context when disabled")
	}
	if ctx == nil {
		t.Error("expected context")
	}
}

func TestEnabledExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(true, &buf); err != nil {
		t.Fatal(err)
	}
	_, span := StartSpan(context.Background(), "pipeline.run")
	if !span.SpanContext().IsValid() {
		t.Error("expected a valid span when enabled")
	}
	span.End()
	if err := Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "pipeline.run") {
		t.Errorf("expected exported span name, got %q", buf.String())
	}
	if Enabled() {
		t.Error("expected tracing disabled after shutdown")
	}
}
