package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/lessmo/internal/auth"
	"github.com/mmynk/lessmo/internal/middleware"
	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage"
	"github.com/mmynk/lessmo/pkg/api"
	"github.com/mmynk/lessmo/pkg/api/apiconnect"
)

var _ apiconnect.AuthServiceHandler = (*AuthService)(nil)

// UserLookup fetches users by ID for GetCurrentUser.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         UserLookup
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users UserLookup, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	email := strings.TrimSpace(req.Msg.Email)
	s.logger.InfoContext(ctx, "Register request", "email", email)

	if email == "" {
		return nil, invalidArgument("email is required")
	}

	user, err := s.authenticator.Register(ctx, email, req.Msg.DisplayName, req.Msg.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Registration failed", "email", email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrPasswordTooLong),
			errors.Is(err, auth.ErrInvalidEmail):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.InfoContext(ctx, "User registered", "user_id", user.ID)
	return s.signIn(ctx, user)
}

// Login authenticates a user and returns a bearer token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.WarnContext(ctx, "Login failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return s.signIn(ctx, user)
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*connect.Response[api.AuthResponse], error) {
	token, expires, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.AuthResponse{
		Token:     token,
		ExpiresAt: expires.Unix(),
		User:      toAPIUser(user),
	}), nil
}

// GetCurrentUser returns the authenticated user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// token outlived its account
			return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.GetCurrentUserResponse{User: toAPIUser(user)}), nil
}
