package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/server/config"
	"github.com/dmitrijs2005/bikebed/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bikebed/internal/server/services"
	"google.golang.org/grpc/test/bufconn"
)

const testSecret = "secret"

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: time.Hour,
		ResetTokenValidityDuration:   time.Hour,
		S3Bucket:                     "avatars",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Region:                     "us-east-1",
	}
}

func newTestServer(t *testing.T, limit RateLimit) *GRPCServer {
	t.Helper()
	cfg := testConfig()
	us := services.NewUserService(repomanager.NewMemoryRepositoryManager(), cfg, logging.Discard())
	return NewGRPCServer("bufnet", logging.Discard(), us, services.NewAvatarService(cfg), testSecret, limit)
}

// serveBufconn starts s on an in-memory listener and returns its dialer.
func serveBufconn(t *testing.T, s *GRPCServer) func(context.Context, string) (net.Conn, error) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}
}
