package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/storage"
	"github.com/mmynk/settleup/pkg/api"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	apiconnect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// RequestCode sends a one-time sign-in code to the phone.
func (s *AuthService) RequestCode(ctx context.Context, req *connect.Request[api.RequestCodeRequest]) (*connect.Response[api.RequestCodeResponse], error) {
	expiresAt, err := s.authenticator.RequestCode(ctx, req.Msg.Phone)
	if err != nil {
		s.logger.Warn("RequestCode failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Sign-in code sent", "expires_at", expiresAt)
	return connect.NewResponse(&api.RequestCodeResponse{ExpiresAt: expiresAt.UnixMilli()}), nil
}

// VerifyCode exchanges a valid code for a session token, creating the account
// on first sign-in.
func (s *AuthService) VerifyCode(ctx context.Context, req *connect.Request[api.VerifyCodeRequest]) (*connect.Response[api.VerifyCodeResponse], error) {
	user, err := s.authenticator.Verify(ctx, req.Msg.Phone, req.Msg.Code)
	if err != nil {
		s.logger.Warn("VerifyCode failed", "error", err)
		return nil, toConnectError(err)
	}

	session, err := s.jwtManager.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed in", "user_id", user.ID)
	return connect.NewResponse(&api.VerifyCodeResponse{
		User:      toAPIUser(user),
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UnixMilli(),
	}), nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}

// UpdateProfile sets the profile display name used for new memberships.
func (s *AuthService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	name := strings.TrimSpace(req.Msg.DisplayName)
	if name == "" {
		return nil, toConnectError(ErrNameRequired)
	}

	if err := s.users.UpdateUserDisplayName(ctx, userID, name); err != nil {
		s.logger.Error("UpdateProfile failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Profile updated", "user_id", userID)
	return connect.NewResponse(&api.UpdateProfileResponse{User: toAPIUser(user)}), nil
}
