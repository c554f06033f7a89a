package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/sangkips/pharmacy-api/pkg/apperror"
	"github.com/sangkips/pharmacy-api/pkg/utils"
)

// Operator is the single account allowed to use the counter
type Operator struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
}

// AuthService handles operator login
type AuthService struct {
	operator   Operator
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(operator Operator, jwtManager *utils.JWTManager) *AuthService {
	if operator.DisplayName == "" {
		operator.DisplayName = operator.Username
	}
	return &AuthService{operator: operator, jwtManager: jwtManager}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Operator    Operator  `json:"operator"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login checks the operator credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if s.operator.PasswordHash == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	username := strings.TrimSpace(input.Username)
	sameUser := subtle.ConstantTimeCompare([]byte(username), []byte(s.operator.Username)) == 1
	// always run bcrypt so a wrong username takes as long as a wrong password
	passwordOK := utils.CheckPasswordHash(input.Password, s.operator.PasswordHash)
	if !sameUser || !passwordOK {
		return nil, apperror.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtManager.GenerateAccessToken(s.operator.Username, s.operator.DisplayName)
	if err != nil {
		return nil, apperror.ErrInternalServer
	}

	return &LoginOutput{
		Operator:    s.operator,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
