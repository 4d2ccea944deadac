// Package grpc exposes the auth backend as the bikebed.auth.AuthService
// gRPC service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/rpc"
	"github.com/dmitrijs2005/bikebed/internal/server/services"
	"google.golang.org/grpc"
)

// RateLimit throttles SignIn and ResetPassword per e-mail address.
type RateLimit struct {
	PerMinute int
	Burst     int
}

type GRPCServer struct {
	address   string
	users     *services.UserService
	avatars   *services.AvatarService
	logger    logging.Logger
	jwtSecret []byte
	limiters  *limiterSet
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, as *services.AvatarService, secretKey string, limit RateLimit) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		avatars:   as,
		jwtSecret: []byte(secretKey),
		limiters:  newLimiterSet(limit),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))
	rpc.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()
	go s.limiters.Run(ctx)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
