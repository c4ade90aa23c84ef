package service

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"vocabtest-backend/utilities"
)

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService authenticates the single instructor account.
type AuthService interface {
	Login(username, password string) (*TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

type authService struct {
	username     string
	passwordHash []byte
}

// NewAuthService checks logins against a configured username and bcrypt
// password hash.
func NewAuthService(username, passwordHash string) AuthService {
	return &authService{username: username, passwordHash: []byte(passwordHash)}
}

// HashPassword produces the bcrypt hash stored in the config file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *authService) Login(username, password string) (*TokenPair, error) {
	if len(s.passwordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		utilities.Warn("failed login for %q", username)
		return nil, ErrInvalidCredentials
	}

	access, refresh, err := utilities.GenerateTokens(s.username)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	access, refresh, err := utilities.RefreshTokens(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
