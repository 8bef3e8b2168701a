package service

import (
	"context"
	"fmt"
	"log"

	"aurora/internal/auth"
	"aurora/internal/models"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users         UserStore
	accessSecret  []byte
	refreshSecret []byte
}

func NewAuthService(users UserStore, accessSecret, refreshSecret string) *AuthService {
	return &AuthService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

type RegisterInput struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Roles    []string `json:"roles" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	for _, role := range in.Roles {
		if !models.ValidRole(role) {
			return nil, fmt.Errorf("%w: unknown role %q", models.ErrValidation, role)
		}
		if role == models.RoleAdmin {
			return nil, fmt.Errorf("%w: cannot self-register as admin", models.ErrForbidden)
		}
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %v: %w", err, models.ErrStorage)
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Roles:    in.Roles,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials without revealing which of email or password
// was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)
	}
	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates both tokens given a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid or expired refresh token", models.ErrUnauthorized)
	}
	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", models.ErrUnauthorized)
	}
	return s.issueTokens(user)
}

func (s *AuthService) Me(ctx context.Context, caller models.Caller) (*models.User, error) {
	return s.users.FindByID(ctx, caller.UserID)
}

type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile lets a user change their own name and email. Roles are not
// touchable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, caller models.Caller, in ProfileInput) (*models.User, error) {
	if in.Name == "" && in.Email == "" {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}
	if err := s.users.UpdateProfile(ctx, caller.UserID, in.Name, in.Email); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, caller.UserID)
}

type PasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword verifies the current password before storing the new hash.
// Handed-out refresh tokens stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, caller models.Caller, in PasswordInput) error {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return fmt.Errorf("%w: current password is incorrect", models.ErrUnauthorized)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %v: %w", err, models.ErrStorage)
	}
	return s.users.UpdatePassword(ctx, caller.UserID, string(hashed))
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := auth.SignToken(user, s.accessSecret, auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %v: %w", err, models.ErrStorage)
	}
	refresh, err := auth.SignToken(user, s.refreshSecret, auth.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %v: %w", err, models.ErrStorage)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// EnsureDefaultAdmin seeds the first admin account on a fresh database.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	exists, err := s.users.HasRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Roles:    []string{models.RoleAdmin},
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		return err
	}
	log.Printf("Default admin created (%s)", email)
	return nil
}
