// Auth service implementation for the Cinema Platform account endpoints
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/session"
)

// Endpoint paths for the auth surface.
const (
	authRegisterPath       = "/api/auth/register"
	authLoginPath          = "/api/auth/login"
	authLogoutPath         = "/api/auth/logout"
	authProfilePath        = "/api/auth/profile"
	authAccountPath        = "/api/auth/account"
	authForgotPasswordPath = "/api/auth/forgot-password"
	authResetPasswordPath  = "/api/auth/reset-password"
	authChangePasswordPath = "/api/auth/change-password"
	authVerifyTokenPath    = "/api/auth/verify-token"
)

// AuthService handles the account lifecycle and keeps the session store in
// step with login/logout outcomes.
type AuthService struct {
	api      *APIClient
	sessions *session.Store
}

// NewAuthService creates an AuthService bound to the given transport and session store.
func NewAuthService(api *APIClient, sessions *session.Store) *AuthService {
	return &AuthService{api: api, sessions: sessions}
}

// loginPayload is the login response data: the profile plus the bearer token.
type loginPayload struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a new account. Validation runs locally first; no request
// is sent when the form data is invalid.
func (s *AuthService) Register(ctx context.Context, data models.RegisterData) (*models.User, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, authRegisterPath, data, false)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := envelope.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login obtains a token and stores the resulting identity in the session store.
func (s *AuthService) Login(ctx context.Context, data models.LoginData) (*session.Identity, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Post(ctx, authLoginPath, data, false)
	if err != nil {
		return nil, err
	}

	var payload loginPayload
	if err := envelope.Decode(&payload); err != nil {
		return nil, err
	}

	identity := session.Identity{Token: payload.Token, User: payload.User}
	if err := s.sessions.Set(identity); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &identity, nil
}

// Logout invalidates the session server-side (best effort) and always clears
// the local session, even when the remote call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	_, remoteErr := s.api.Post(ctx, authLogoutPath, nil, true)
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	return remoteErr
}

// Profile fetches the authenticated viewer's profile.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Get(ctx, authProfilePath, true)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := envelope.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update and returns the new profile.
func (s *AuthService) UpdateProfile(ctx context.Context, data models.UpdateProfileData) (*models.User, error) {
	if err := s.sessions.RequireAuth(); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	envelope, err := s.api.Put(ctx, authProfilePath, data, true)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := envelope.Decode(&user); err != nil {
		return nil, err
	}

	if current := s.sessions.Current(); current != nil {
		s.sessions.Set(session.Identity{Token: current.Token, User: user})
	}
	return &user, nil
}

// DeleteAccount removes the account (password re-confirmation required in the
// body) and clears the local session on success.
func (s *AuthService) DeleteAccount(ctx context.Context, password string) error {
	if err := s.sessions.RequireAuth(); err != nil {
		return err
	}

	body := map[string]string{"password": password}
	if _, err := s.api.Delete(ctx, authAccountPath, body, true); err != nil {
		return err
	}
	return s.sessions.Clear()
}

// ForgotPassword requests a password reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	_, err := s.api.Post(ctx, authForgotPasswordPath, map[string]string{"email": email}, false)
	return err
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := models.ValidatePassword(newPassword); err != nil {
		return err
	}

	body := map[string]string{"token": token, "newPassword": newPassword}
	_, err := s.api.Post(ctx, authResetPasswordPath, body, false)
	return err
}

// ChangePassword performs an authenticated password change.
func (s *AuthService) ChangePassword(ctx context.Context, data models.ChangePasswordData) error {
	if err := s.sessions.RequireAuth(); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	_, err := s.api.Post(ctx, authChangePasswordPath, data, true)
	return err
}

// VerifyToken asks the backend whether the stored token is still valid.
func (s *AuthService) VerifyToken(ctx context.Context) (bool, error) {
	if s.sessions.Token() == "" {
		return false, nil
	}

	envelope, err := s.api.Post(ctx, authVerifyTokenPath, nil, true)
	if err != nil {
		return false, err
	}

	var payload struct {
		Valid bool `json:"valid"`
	}
	if err := envelope.Decode(&payload); err != nil {
		// Older backend revisions answer with an empty success envelope.
		return true, nil
	}
	return payload.Valid, nil
}
