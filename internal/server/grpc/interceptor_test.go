package grpc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/rpc"
	"github.com/dmitrijs2005/bikebed/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func withToken(token string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, token))
}

func TestAccessTokenInterceptor(t *testing.T) {
	s := newTestServer(t, RateLimit{})
	protected := &grpc.UnaryServerInfo{FullMethod: rpc.MethodUpdateProfile}

	var gotUser string
	handler := func(ctx context.Context, req any) (any, error) {
		gotUser, _ = userIDFromContext(ctx)
		return "ok", nil
	}

	valid, err := auth.GenerateToken("u-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("u-1", []byte(testSecret), -time.Second)
	require.NoError(t, err)

	t.Run("public method needs no token", func(t *testing.T) {
		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: rpc.MethodSignIn}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("valid token", func(t *testing.T) {
		_, err := s.accessTokenInterceptor(withToken(valid), nil, protected, handler)
		require.NoError(t, err)
		assert.Equal(t, "u-1", gotUser)
	})

	tests := []struct {
		name string
		ctx  context.Context
		msg  string
	}{
		{"missing", context.Background(), "missing token"},
		{"expired", withToken(expired), common.ErrTokenExpired.Error()},
		{"garbage", withToken("nope"), common.ErrInvalidToken.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tt.ctx, nil, protected, handler)
			st, _ := status.FromError(err)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestRateLimitInterceptor(t *testing.T) {
	s := newTestServer(t, RateLimit{PerMinute: 1, Burst: 2})
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodSignIn}
	handler := func(context.Context, any) (any, error) { return "ok", nil }

	call := func(email string) error {
		_, err := s.rateLimitInterceptor(context.Background(), &rpc.SignInRequest{Email: email}, info, handler)
		return err
	}

	require.NoError(t, call("a@b.co"))
	require.NoError(t, call(" A@B.co "))
	err := call("a@b.co")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// other keys keep their own budget
	require.NoError(t, call("c@d.co"))
	_, err = s.rateLimitInterceptor(context.Background(), &rpc.ResetPasswordRequest{Email: "a@b.co"},
		&grpc.UnaryServerInfo{FullMethod: rpc.MethodResetPassword}, handler)
	require.NoError(t, err)

	// untracked requests pass
	_, err = s.rateLimitInterceptor(context.Background(), &rpc.PingRequest{}, &grpc.UnaryServerInfo{FullMethod: rpc.MethodPing}, handler)
	require.NoError(t, err)
}

func TestLimiterSet_Defaults(t *testing.T) {
	l := newLimiterSet(RateLimit{})
	assert.Equal(t, 1, l.burst)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestLimiterSet_SprayDoesNotResetHotKey(t *testing.T) {
	l := newLimiterSet(RateLimit{PerMinute: 10, Burst: 2})
	l.max = 100
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	hot := rpc.MethodSignIn + "|victim@bikebed.app"
	require.True(t, l.Allow(hot))
	require.True(t, l.Allow(hot))
	require.False(t, l.Allow(hot))

	for i := range 500 {
		now = now.Add(time.Millisecond)
		l.Allow(fmt.Sprintf("%s|spray%d@bikebed.app", rpc.MethodSignIn, i))
	}
	assert.LessOrEqual(t, len(l.limiters), 100)
	assert.False(t, l.Allow(hot))

	// refilled limiters make room again
	now = now.Add(time.Minute)
	assert.True(t, l.Allow(rpc.MethodSignIn+"|new@bikebed.app"))
}

func TestLimiterSet_SweepDropsIdle(t *testing.T) {
	l := newLimiterSet(RateLimit{PerMinute: 10, Burst: 1})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	now = now.Add(5 * time.Minute)
	require.True(t, l.Allow("b"))

	now = now.Add(6 * time.Minute)
	l.Sweep()
	assert.NotContains(t, l.limiters, "a")
	assert.Contains(t, l.limiters, "b")
}
