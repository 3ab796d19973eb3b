package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestNewProviders_NoEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, ep := range []string{"", "   "} {
		p, err := NewProviders(ctx, Options{Endpoint: ep, ServiceName: "test"})
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", ep, err)
		}
		if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
			t.Fatal("providers should not be nil")
		}
		if err := p.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown should be a no-op, got %v", err)
		}
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	for _, ep := range []string{"http://", "http://[invalid"} {
		if _, err := NewProviders(context.Background(), Options{Endpoint: ep}); err == nil {
			t.Errorf("NewProviders(%q) should fail", ep)
		}
	}
}

func TestGrpcTarget(t *testing.T) {
	tests := []struct {
		in       string
		target   string
		insecure bool
	}{
		{"localhost:4317", "localhost:4317", true},
		{"http://collector:4317/v1/traces", "collector:4317", true},
		{"https://collector:4317", "collector:4317", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target, insecure, err := grpcTarget(tt.in)
			if err != nil {
				t.Fatalf("grpcTarget: %v", err)
			}
			if target != tt.target || insecure != tt.insecure {
				t.Errorf("grpcTarget(%q) = %q, %v; want %q, %v", tt.in, target, insecure, tt.target, tt.insecure)
			}
		})
	}
}

func TestNewProviders_WithEndpointAndSetGlobal(t *testing.T) {
	ctx := context.Background()
	p, err := NewProviders(ctx, Options{Endpoint: "localhost:4317", ServiceName: "test", Insecure: true})
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	p.SetGlobal()
	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("global tracer provider not set")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_ = p.Shutdown(cancelled)
}
