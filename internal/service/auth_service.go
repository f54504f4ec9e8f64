package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-admin/internal/models"
	"github.com/noah-isme/academy-admin/pkg/apiclient"
	appErrors "github.com/noah-isme/academy-admin/pkg/errors"
)

// Keys persisted in the visitor's local store.
const (
	KeyIsAuthenticated = "isAuthenticated"
	KeyAdminUser       = "adminUser"
	keyAuthToken       = "authToken"
	keyRefreshToken    = "refreshToken"
)

// LocalStore persists small string values for a single visitor. Get returns
// appErrors.ErrStoreMiss for absent keys.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// AuthService drives the cookie-authenticated admin session against the platform API.
type AuthService struct {
	client *apiclient.Client
	store  LocalStore
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(client *apiclient.Client, store LocalStore, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{client: client, store: store, logger: logger}
}

// Login authenticates with phone and password. The session cookie lands in the client's
// jar; the profile and the authenticated marker land in the local store.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AdminUser, error) {
	s.logger.Info("login attempt", zap.String("phone", req.Phone))
	env, err := apiclient.Post[models.AdminUser](ctx, s.client, endpointLogin, req)
	user, err := unwrap(s.logger, "login", env, err, "Login failed")
	if err != nil {
		return nil, err
	}
	if err := s.storeUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout ends the server session when a local marker exists, then always clears local
// state. Server failures are logged and never returned.
func (s *AuthService) Logout(ctx context.Context) {
	if s.IsAuthenticated(ctx) {
		env, err := apiclient.Post[apiclient.Ack](ctx, s.client, endpointLogout, nil)
		if err := confirm(s.logger, "logout", env, err, "Logout failed"); err != nil {
			s.logger.Warn("logout endpoint failed", zap.Error(err))
		}
	}
	s.ClearAuthData(ctx)
}

// GetProfile fetches the current admin and refreshes the cached copy.
func (s *AuthService) GetProfile(ctx context.Context) (*models.AdminUser, error) {
	env, err := apiclient.Get[models.AdminUser](ctx, s.client, endpointProfile, nil)
	user, err := unwrap(s.logger, "get profile", env, err, "Failed to fetch profile")
	if err != nil {
		return nil, err
	}
	if err := s.setUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RefreshSession asks the platform to rotate the session cookie. Local state is cleared
// when the refresh fails.
func (s *AuthService) RefreshSession(ctx context.Context) error {
	env, err := apiclient.Post[apiclient.Ack](ctx, s.client, endpointRefresh, nil)
	if err := confirm(s.logger, "refresh session", env, err, "Token refresh failed"); err != nil {
		s.ClearAuthData(ctx)
		return err
	}
	return nil
}

// IsAuthenticated reports the local view only: the marker is "true" and a cached
// profile exists. It never contacts the server.
func (s *AuthService) IsAuthenticated(ctx context.Context) bool {
	marker, err := s.store.Get(ctx, KeyIsAuthenticated)
	if err != nil || marker != "true" {
		return false
	}
	user, err := s.store.Get(ctx, KeyAdminUser)
	return err == nil && user != ""
}

// VerifyAuthentication checks the session cookie against the profile endpoint. Any
// request failure clears local state. A well-formed rejection only reports false.
func (s *AuthService) VerifyAuthentication(ctx context.Context) bool {
	env, err := apiclient.Get[models.AdminUser](ctx, s.client, endpointProfile, nil)
	if err != nil {
		s.logger.Warn("authentication verification failed", zap.Error(err))
		s.ClearAuthData(ctx)
		return false
	}
	if !env.Success || env.Data == nil {
		return false
	}
	if err := s.storeUser(ctx, env.Data); err != nil {
		s.logger.Warn("persist verified profile failed", zap.Error(err))
		return false
	}
	return true
}

// CurrentUser returns the cached profile, or nil when none is stored or it cannot be parsed.
func (s *AuthService) CurrentUser(ctx context.Context) *models.AdminUser {
	raw, err := s.store.Get(ctx, KeyAdminUser)
	if err != nil {
		if !errors.Is(err, appErrors.ErrStoreMiss) {
			s.logger.Warn("read cached profile failed", zap.Error(err))
		}
		return nil
	}
	if raw == "" {
		return nil
	}
	var user models.AdminUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("cached profile is not valid JSON", zap.Error(err))
		return nil
	}
	return &user
}

// ClearAuthData removes every auth key, including the legacy token keys.
func (s *AuthService) ClearAuthData(ctx context.Context) {
	if err := s.store.Delete(ctx, KeyAdminUser, KeyIsAuthenticated, keyAuthToken, keyRefreshToken); err != nil {
		s.logger.Warn("clear auth data failed", zap.Error(err))
	}
}

func (s *AuthService) storeUser(ctx context.Context, user *models.AdminUser) error {
	if err := s.setUser(ctx, user); err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyIsAuthenticated, "true"); err != nil {
		return fmt.Errorf("store auth marker: %w", err)
	}
	return nil
}

func (s *AuthService) setUser(ctx context.Context, user *models.AdminUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal admin user: %w", err)
	}
	if err := s.store.Set(ctx, KeyAdminUser, string(raw)); err != nil {
		return fmt.Errorf("store admin user: %w", err)
	}
	return nil
}
