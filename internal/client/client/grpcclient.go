package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bikebed/internal/client/models"
	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient is the gateway for the hosted backend.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.Tokens()
	if access != "" {
		ctx = withAccessToken(ctx, access)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" || method == rpc.MethodRefreshToken {
		return err
	}

	pair, err := s.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		return err
	}
	s.Resume(pair.AccessToken, pair.RefreshToken)

	// retry once with the rotated token
	ctx = withAccessToken(ctx, pair.AccessToken)
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Resume(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// sessionFromAuth maps the flat wire user onto the canonical session.
func sessionFromAuth(resp *rpc.AuthResponse) *models.Session {
	return &models.Session{
		ID:           resp.User.ID,
		Email:        resp.User.Email,
		Metadata:     models.Metadata(resp.User.Profile.Map()),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := s.client.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.Resume(resp.AccessToken, resp.RefreshToken)
	return sessionFromAuth(resp), nil
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string, profile map[string]any) (*models.Session, error) {
	req := &rpc.SignUpRequest{Email: email, Password: password, Profile: rpc.ProfileFromMap(profile)}
	resp, err := s.client.SignUp(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	s.Resume(resp.AccessToken, resp.RefreshToken)
	return sessionFromAuth(resp), nil
}

// SignOut revokes the refresh token on the server and forgets both tokens
// locally even when the call fails.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	_, refresh := s.Tokens()
	defer s.Resume("", "")

	if refresh == "" {
		return nil
	}
	if _, err := s.client.SignOut(ctx, &rpc.SignOutRequest{RefreshToken: refresh}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email string) error {
	if _, err := s.client.ResetPassword(ctx, &rpc.ResetPasswordRequest{Email: email}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) UpdateProfile(ctx context.Context, md map[string]any) error {
	req := &rpc.UpdateProfileRequest{Profile: rpc.ProfileFromMap(md)}
	if _, err := s.client.UpdateProfile(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) AvatarUploadURL(ctx context.Context, contentType string) (string, string, error) {
	resp, err := s.client.AvatarUploadURL(ctx, &rpc.AvatarUploadURLRequest{ContentType: contentType})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.UploadURL, resp.PublicURL, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		if st.Message() == common.ErrInvalidCredentials.Error() {
			return common.ErrInvalidCredentials
		}
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrUnauthorized
	case codes.NotFound:
		return common.ErrUserNotFound
	case codes.AlreadyExists:
		return common.ErrUserAlreadyExists
	case codes.ResourceExhausted:
		return common.ErrTooManyRequests
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
