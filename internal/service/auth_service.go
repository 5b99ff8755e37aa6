package service

import (
	"context"
	"errors"
	"time"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    string       `json:"expires_in"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AuthService orchestrates login, token refresh, and password changes
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error)
	ChangePassword(ctx context.Context, identity *model.User, req ChangePasswordRequest) error
}

type authService struct {
	users       repository.UserRepository
	audit       repository.AuditRepository
	codec       *auth.TokenCodec
	accessTTL   time.Duration
	minPassword int
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(users repository.UserRepository, audit repository.AuditRepository, codec *auth.TokenCodec, accessTTL time.Duration, minPassword int) AuthService {
	return &authService{
		users:       users,
		audit:       audit,
		codec:       codec,
		accessTTL:   accessTTL,
		minPassword: minPassword,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable.
		recordAuditDetails(ctx, s.audit, nil, model.ActionLoginFailed, "", map[string]interface{}{"email": req.Email})
		return nil, auth.ErrInvalidCredentials
	}

	if user.Status != model.UserStatusActive {
		return nil, auth.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		recordAuditDetails(ctx, s.audit, nil, model.ActionLoginFailed, user.ID.String(), map[string]interface{}{"email": req.Email})
		return nil, auth.ErrInvalidCredentials
	}

	accessToken, err := s.codec.Issue(user.ID, auth.PurposeAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.Issue(user.ID, auth.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	recordAuditDetails(ctx, s.audit, &user.ID, model.ActionLogin, user.ID.String(), map[string]interface{}{"email": user.Email})

	return &LoginResponse{
		User:         mapUserToResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessTTL.String(),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	// Purpose must match: an access token presented here is rejected.
	subject, err := s.codec.VerifyPurpose(refreshToken, auth.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, subject.String())
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	if user.Status != model.UserStatusActive {
		return nil, auth.ErrAccountInactive
	}

	accessToken, err := s.codec.Issue(user.ID, auth.PurposeAccess)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{AccessToken: accessToken, ExpiresIn: s.accessTTL.String()}, nil
}

func (s *authService) ChangePassword(ctx context.Context, identity *model.User, req ChangePasswordRequest) error {
	if identity == nil {
		return auth.ErrUnauthenticated
	}

	// Re-read so the comparison runs against the current stored hash.
	user, err := s.users.GetByID(ctx, identity.ID.String())
	if err != nil {
		return auth.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return auth.ErrInvalidCredentials
	}

	if len(req.NewPassword) < s.minPassword {
		return auth.ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, user.ID.String(), string(hashed)); err != nil {
		return err
	}

	// Outstanding tokens stay valid until natural expiry.
	recordAudit(ctx, s.audit, &user.ID, model.ActionChangePassword, user.ID.String(), user.Email)
	return nil
}
