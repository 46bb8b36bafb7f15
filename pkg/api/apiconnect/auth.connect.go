package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "settleup.v1.AuthService"

// Procedure paths of the AuthService methods.
const (
	AuthServiceRequestCodeProcedure    = "/settleup.v1.AuthService/RequestCode"
	AuthServiceVerifyCodeProcedure     = "/settleup.v1.AuthService/VerifyCode"
	AuthServiceGetCurrentUserProcedure = "/settleup.v1.AuthService/GetCurrentUser"
	AuthServiceUpdateProfileProcedure  = "/settleup.v1.AuthService/UpdateProfile"
)

// AuthServiceClient is a client for the settleup.v1.AuthService service.
type AuthServiceClient interface {
	RequestCode(context.Context, *connect.Request[api.RequestCodeRequest]) (*connect.Response[api.RequestCodeResponse], error)
	VerifyCode(context.Context, *connect.Request[api.VerifyCodeRequest]) (*connect.Response[api.VerifyCodeResponse], error)
	GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
}

// NewAuthServiceClient constructs a client for the settleup.v1.AuthService service. The
// JSON codec is installed first, so callers may still override it.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
	return &authServiceClient{
		requestCode:    connect.NewClient[api.RequestCodeRequest, api.RequestCodeResponse](httpClient, baseURL+AuthServiceRequestCodeProcedure, opts...),
		verifyCode:     connect.NewClient[api.VerifyCodeRequest, api.VerifyCodeResponse](httpClient, baseURL+AuthServiceVerifyCodeProcedure, opts...),
		getCurrentUser: connect.NewClient[emptypb.Empty, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		updateProfile:  connect.NewClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL+AuthServiceUpdateProfileProcedure, opts...),
	}
}

type authServiceClient struct {
	requestCode    *connect.Client[api.RequestCodeRequest, api.RequestCodeResponse]
	verifyCode     *connect.Client[api.VerifyCodeRequest, api.VerifyCodeResponse]
	getCurrentUser *connect.Client[emptypb.Empty, api.GetCurrentUserResponse]
	updateProfile  *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
}

func (c *authServiceClient) RequestCode(ctx context.Context, req *connect.Request[api.RequestCodeRequest]) (*connect.Response[api.RequestCodeResponse], error) {
	return c.requestCode.CallUnary(ctx, req)
}

func (c *authServiceClient) VerifyCode(ctx context.Context, req *connect.Request[api.VerifyCodeRequest]) (*connect.Response[api.VerifyCodeResponse], error) {
	return c.verifyCode.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of settleup.v1.AuthService.
type AuthServiceHandler interface {
	RequestCode(context.Context, *connect.Request[api.RequestCodeRequest]) (*connect.Response[api.RequestCodeResponse], error)
	VerifyCode(context.Context, *connect.Request[api.VerifyCodeRequest]) (*connect.Response[api.VerifyCodeResponse], error)
	GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation and
// returns the path on which to mount it.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
	requestCodeHandler := connect.NewUnaryHandler(AuthServiceRequestCodeProcedure, svc.RequestCode, opts...)
	verifyCodeHandler := connect.NewUnaryHandler(AuthServiceVerifyCodeProcedure, svc.VerifyCode, opts...)
	getCurrentUserHandler := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	updateProfileHandler := connect.NewUnaryHandler(AuthServiceUpdateProfileProcedure, svc.UpdateProfile, opts...)
	return "/settleup.v1.AuthService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRequestCodeProcedure:
			requestCodeHandler.ServeHTTP(w, r)
		case AuthServiceVerifyCodeProcedure:
			verifyCodeHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		case AuthServiceUpdateProfileProcedure:
			updateProfileHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) RequestCode(context.Context, *connect.Request[api.RequestCodeRequest]) (*connect.Response[api.RequestCodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.RequestCode is not implemented"))
}

func (UnimplementedAuthServiceHandler) VerifyCode(context.Context, *connect.Request[api.VerifyCodeRequest]) (*connect.Response[api.VerifyCodeResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.VerifyCode is not implemented"))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.GetCurrentUser is not implemented"))
}

func (UnimplementedAuthServiceHandler) UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settleup.v1.AuthService.UpdateProfile is not implemented"))
}
