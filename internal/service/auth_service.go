package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmsleo/kreasiPOS/internal/config"
	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	RegisterTenant(ctx context.Context, req dto.RegisterTenantRequest) (*dto.RegisterTenantResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
	CreateUser(ctx context.Context, tenantID uuid.UUID, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, tenantID uuid.UUID) ([]dto.UserResponse, error)
	DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID) error
}

type authService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	cfg        *config.Config
}

func NewAuthService(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, tenantRepo: tenantRepo, cfg: cfg}
}

// ── RegisterTenant ────────────────────────────────────────────────────────────
// One transaction creates the tenant and its first admin user so a half
// registered store can never exist.

func (s *authService) RegisterTenant(ctx context.Context, req dto.RegisterTenantRequest) (*dto.RegisterTenantResponse, error) {
	subdomain := strings.ToLower(req.Subdomain)
	if _, err := s.tenantRepo.FindBySubdomain(ctx, subdomain); err == nil {
		return nil, errors.New("subdomain is already taken")
	}
	if _, err := s.tenantRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("a store with this email already exists")
	}
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}

	var tenant model.Tenant
	var admin model.User
	txErr := runTx(ctx, s.tenantRepo.DB(), func(tx *gorm.DB) error {
		tenant = model.Tenant{
			Name:      req.BusinessName,
			Email:     req.Email,
			Subdomain: &subdomain,
			Active:    true,
		}
		if req.Phone != "" {
			phone := req.Phone
			tenant.Phone = &phone
		}
		if err := s.tenantRepo.Create(ctx, tx, &tenant); err != nil {
			return err
		}

		admin = model.User{
			TenantID:     tenant.ID,
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         "admin",
			Active:       true,
		}
		return s.userRepo.Create(ctx, tx, &admin)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.RegisterTenantResponse{
		TenantID:     tenant.ID.String(),
		BusinessName: tenant.Name,
		Subdomain:    subdomain,
		AdminUserID:  admin.ID.String(),
	}, nil
}

// ── Login / Refresh ───────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	_ = s.userRepo.Update(ctx, user)

	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	user, err := s.userRepo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, errors.New("user not found or inactive")
	}

	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	access, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.JWTExpirationHours) * 3600,
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    user.ID.String(),
		"tenant_id":  user.TenantID.String(),
		"username":   user.Username,
		"role":       user.Role,
		"superadmin": user.Superadmin,
		"exp":        time.Now().Add(duration).Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ── User management ───────────────────────────────────────────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return errors.New("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errors.New("current password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

func (s *authService) CreateUser(ctx context.Context, tenantID uuid.UUID, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		TenantID:     tenantID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.userRepo.Create(ctx, s.userRepo.DB(), user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]dto.UserResponse, error) {
	users, err := s.userRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = *userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.userRepo.Deactivate(ctx, tenantID, userID)
}

func userToResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Active:   u.Active,
	}
}
