package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "bikebed.auth.AuthService"

// Full method names, also used by server interceptors.
const (
	MethodSignIn          = "/" + ServiceName + "/SignIn"
	MethodSignUp          = "/" + ServiceName + "/SignUp"
	MethodSignOut         = "/" + ServiceName + "/SignOut"
	MethodResetPassword   = "/" + ServiceName + "/ResetPassword"
	MethodUpdateProfile   = "/" + ServiceName + "/UpdateProfile"
	MethodRefreshToken    = "/" + ServiceName + "/RefreshToken"
	MethodAvatarUploadURL = "/" + ServiceName + "/AvatarUploadURL"
	MethodPing            = "/" + ServiceName + "/Ping"
)

// AuthServiceServer is implemented by the backend.
type AuthServiceServer interface {
	SignIn(context.Context, *SignInRequest) (*AuthResponse, error)
	SignUp(context.Context, *SignUpRequest) (*AuthResponse, error)
	SignOut(context.Context, *SignOutRequest) (*Empty, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*Empty, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*UserResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error)
	AvatarUploadURL(context.Context, *AvatarUploadURLRequest) (*AvatarUploadURLResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// AuthServiceClient is the client stub.
type AuthServiceClient interface {
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error)
	ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UserResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error)
	AvatarUploadURL(ctx context.Context, in *AvatarUploadURLRequest, opts ...grpc.CallOption) (*AvatarUploadURLResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authServiceClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodSignIn, in, opts)
}

func (c *authServiceClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodSignUp, in, opts)
}

func (c *authServiceClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSignOut, in, opts)
}

func (c *authServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodResetPassword, in, opts)
}

func (c *authServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodUpdateProfile, in, opts)
}

func (c *authServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *authServiceClient) AvatarUploadURL(ctx context.Context, in *AvatarUploadURLRequest, opts ...grpc.CallOption) (*AvatarUploadURLResponse, error) {
	return invoke[AvatarUploadURLResponse](ctx, c.cc, MethodAvatarUploadURL, in, opts)
}

func (c *authServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

// unaryHandler adapts a typed server method to grpc.MethodDesc.Handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(AuthServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AuthServiceDesc is the grpc.ServiceDesc for AuthServiceServer.
var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignIn", Handler: unaryHandler(MethodSignIn, AuthServiceServer.SignIn)},
		{MethodName: "SignUp", Handler: unaryHandler(MethodSignUp, AuthServiceServer.SignUp)},
		{MethodName: "SignOut", Handler: unaryHandler(MethodSignOut, AuthServiceServer.SignOut)},
		{MethodName: "ResetPassword", Handler: unaryHandler(MethodResetPassword, AuthServiceServer.ResetPassword)},
		{MethodName: "UpdateProfile", Handler: unaryHandler(MethodUpdateProfile, AuthServiceServer.UpdateProfile)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, AuthServiceServer.RefreshToken)},
		{MethodName: "AvatarUploadURL", Handler: unaryHandler(MethodAvatarUploadURL, AuthServiceServer.AvatarUploadURL)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, AuthServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bikebed/auth",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}
