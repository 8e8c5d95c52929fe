package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"csv_manager_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Auth DTOs ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Username    string    `json:"username"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// --- AuthService Interface ---
type AuthService interface {
	Enabled() bool
	Login(req LoginRequest) (*AuthResponse, error)
	ValidateToken(token string) (*utils.Claims, error)
}

// OperatorConfig describes the single operator account allowed to edit.
// An empty PasswordHash disables authentication.
type OperatorConfig struct {
	Username      string
	PasswordHash  string
	JWTSecret     string
	JWTExpiration time.Duration
}

// --- authService Implementation ---
type authService struct {
	username      string
	passwordHash  []byte
	jwtSecret     []byte
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg OperatorConfig) (AuthService, error) {
	s := &authService{
		username:      cfg.Username,
		jwtSecret:     []byte(cfg.JWTSecret),
		jwtExpiration: cfg.JWTExpiration,
	}
	if cfg.PasswordHash == "" {
		return s, nil
	}
	if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
		return nil, fmt.Errorf("operator password hash is not a bcrypt hash: %w", err)
	}
	if cfg.Username == "" {
		return nil, errors.New("operator username is required when a password hash is set")
	}
	if len(s.jwtSecret) == 0 {
		return nil, errors.New("JWT_SECRET is required when operator authentication is enabled")
	}
	if s.jwtExpiration <= 0 {
		s.jwtExpiration = 12 * time.Hour
	}
	s.passwordHash = []byte(cfg.PasswordHash)
	return s, nil
}

func (s *authService) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Login checks operator credentials and issues an access token.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password))
	if !userMatch || passErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateAccessToken(s.jwtSecret, s.username, s.jwtExpiration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &AuthResponse{Username: s.username, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) ValidateToken(token string) (*utils.Claims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	return utils.ValidateToken(s.jwtSecret, token)
}

// HashOperatorPassword returns the bcrypt hash to put in OPERATOR_PASSWORD_HASH.
func HashOperatorPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
