package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/dmitrijs2005/bikebed/internal/rpc"
	"github.com/dmitrijs2005/bikebed/internal/server/models"
	"github.com/dmitrijs2005/bikebed/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ rpc.AuthServiceServer = (*GRPCServer)(nil)

func toUser(u *models.User) rpc.User {
	return rpc.User{ID: u.ID, Email: u.Email, Profile: rpc.ProfileFromMap(u.Metadata)}
}

func toAuthResponse(u *models.User, pair *services.TokenPair) *rpc.AuthResponse {
	return &rpc.AuthResponse{User: toUser(u), AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
}

// toStatus maps service errors to gRPC statuses. Internal details stay in
// the log.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrUserAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrUserNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.SignInRequest) (*rpc.AuthResponse, error) {
	user, pair, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(user, pair), nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.SignUpRequest) (*rpc.AuthResponse, error) {
	user, pair, err := s.users.SignUp(ctx, req.Email, req.Password, req.Profile.Map())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(user, pair), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *rpc.SignOutRequest) (*rpc.Empty, error) {
	if err := s.users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if _, err := s.users.ResetPassword(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *rpc.UpdateProfileRequest) (*rpc.UserResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	user, err := s.users.UpdateProfile(ctx, userID, req.Profile.Map())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.UserResponse{User: toUser(user)}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenPair, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *GRPCServer) AvatarUploadURL(ctx context.Context, req *rpc.AvatarUploadURLRequest) (*rpc.AvatarUploadURLResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	upload, public, err := s.avatars.UploadURL(ctx, userID, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.AvatarUploadURLResponse{UploadURL: upload, PublicURL: public}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}
