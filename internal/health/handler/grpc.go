package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPC mirrors the readiness checks into a grpc.health.v1 server.
type GRPC struct {
	*grpchealth.Server
	checker ReadinessChecker
	log     *zap.Logger
}

// NewGRPC returns a health server that starts NOT_SERVING until the first successful check.
func NewGRPC(checker ReadinessChecker, log *zap.Logger) *GRPC {
	if log == nil {
		log = zap.NewNop()
	}
	s := grpchealth.NewServer()
	s.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &GRPC{Server: s, checker: checker, log: log}
}

// Refresh runs one check and updates the overall serving status.
func (g *GRPC) Refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if _, err := g.checker.Check(ctx); err != nil {
		g.log.Debug("grpc health: not serving", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	g.SetServingStatus("", status)
}

// Run refreshes the status every interval until ctx is done, then marks everything NOT_SERVING.
func (g *GRPC) Run(ctx context.Context, interval time.Duration) {
	g.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.Shutdown()
			return
		case <-ticker.C:
			g.Refresh(ctx)
		}
	}
}
