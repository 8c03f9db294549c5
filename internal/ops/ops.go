// Package ops runs the gRPC side server that exposes health checks and
// reflection to orchestrators.
package ops

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"tutor-marketplace-api/internal/middleware"
)

// Pinger is a dependency whose reachability decides the serving status.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	deps     map[string]Pinger
	interval time.Duration
	log      *zap.Logger
}

// New builds the server. deps are checked every interval; the overall status
// ("") is SERVING only while all of them answer.
func New(deps map[string]Pinger, interval time.Duration, rl *middleware.RateLimiter, log *zap.Logger) *Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryRateLimit(rl),
			middleware.UnaryLogger(log),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &Server{grpc: srv, health: hs, deps: deps, interval: interval, log: log}
}

// Serve blocks until the listener fails or Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info("ops grpc listening", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// Watch refreshes the health status until ctx is done.
func (s *Server) Watch(ctx context.Context) {
	s.Check(ctx)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Check(ctx)
		}
	}
}

// Check pings every dependency once and records the result.
func (s *Server) Check(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, dep := range s.deps {
		status := healthpb.HealthCheckResponse_SERVING
		pctx, cancel := context.WithTimeout(ctx, s.interval)
		err := dep.Ping(pctx)
		cancel()
		if err != nil {
			s.log.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		s.health.SetServingStatus(name, status)
	}
	s.health.SetServingStatus("", overall)
}

// Stop marks everything NOT_SERVING and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}
