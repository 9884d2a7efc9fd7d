package server

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/po-extractor/internal/common"
)

// GRPCHealth is a gRPC server exposing grpc.health.v1 and reflection.
type GRPCHealth struct {
	srv    *grpc.Server
	health *health.Server
	logger *slog.Logger
}

func NewGRPCHealth(logger *slog.Logger) *GRPCHealth {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	// Reflection for grpcurl
	reflection.Register(srv)
	return &GRPCHealth{srv: srv, health: hs, logger: common.LoggerOrDefault(logger)}
}

// Serve blocks serving on lis until Stop.
func (g *GRPCHealth) Serve(lis net.Listener) error {
	g.logger.Info("gRPC health serving", "addr", lis.Addr().String())
	return g.srv.Serve(lis)
}

// Stop marks the service NOT_SERVING and drains in-flight calls, forcing a
// stop when ctx ends first.
func (g *GRPCHealth) Stop(ctx context.Context) {
	g.health.Shutdown()
	done := make(chan struct{})
	go func() { g.srv.GracefulStop(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		g.srv.Stop()
	}
}
