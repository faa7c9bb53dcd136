package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ArleDjinn/AjedrezRecreativo/internal/errors"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/models"
)

const minPasswordLength = 6

type AuthService struct {
	admins     AdminStore
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(admins AdminStore, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		admins:     admins,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

// Login checks the credentials and issues a signed session token. Unknown
// email, inactive account and wrong password are all reported identically.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil || !admin.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().UTC().Add(s.sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatInt(admin.ID, 10),
		"email": admin.Email,
		"iat":   time.Now().UTC().Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken validates a session token and returns the admin identity
// carried in its claims.
func (s *AuthService) VerifyToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", apperrors.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", apperrors.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	adminID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, "", apperrors.ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)

	return adminID, email, nil
}

// CreateAdmin registers a back-office account with a bcrypt password hash.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	v := &apperrors.ValidationError{}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		v.Add("email", "a valid email is required")
	}
	if len(password) < minPasswordLength {
		v.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if v.HasErrors() {
		return nil, v
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	return admin, nil
}
