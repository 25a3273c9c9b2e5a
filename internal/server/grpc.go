package server

import (
	"context"
	"net"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/store"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported alongside the overall
// ("") status.
const ServiceName = "omnipos.register.v1.Register"

// GRPCServer exposes the standard health service and reflection. Status is
// SERVING while the store answers pings.
type GRPCServer struct {
	srv      *grpc.Server
	health   *health.Server
	store    store.Store
	interval time.Duration
	logger   logger.ZapLogger
}

func NewGRPCServer(st store.Store, log logger.ZapLogger) *GRPCServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GRPCServer{
		srv:      srv,
		health:   hs,
		store:    st,
		interval: 5 * time.Second,
		logger:   log,
	}
}

// CheckStore pings the store once and publishes the result.
func (s *GRPCServer) CheckStore(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("store ping failed", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve blocks until Stop is called or lis fails. Health is refreshed on
// an interval until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	s.CheckStore(ctx)
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CheckStore(ctx)
			}
		}
	}()

	s.logger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}
