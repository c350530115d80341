package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dakflow/dakflow/internal/model"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// TokenPair is issued on register, login and refresh. The access
// token is a short-lived JWT; the refresh token is opaque, stored
// server-side and redeemable once.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

type AuthService struct {
	userRepository     repository.UserRepository
	tokenRepository    repository.TokenRepository
	jwtSecret          string
	jwtExpiry          time.Duration
	refreshTokenExpiry time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	refreshTokenExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:     userRepository,
		tokenRepository:    tokenRepository,
		jwtSecret:          jwtSecret,
		jwtExpiry:          jwtExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

func (s *AuthService) Register(email, password string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidEmail
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, nil, ErrWeakPassword
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

func (s *AuthService) Login(email, password string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same error as a wrong password, no account enumeration
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return user, pair, nil
}

// Refresh redeems a refresh token for a new token pair. The old
// token is consumed atomically, so a replayed token fails.
func (s *AuthService) Refresh(refreshToken string) (*model.User, *TokenPair, error) {
	token, err := s.tokenRepository.ConsumeToken(refreshToken)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	if token.Type != model.TokenTypeRefresh {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.userRepository.ByID(token.UserID)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *AuthService) issueTokens(user *model.User) (*TokenPair, error) {
	access, err := s.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	refresh, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	err = s.tokenRepository.Create(&model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeRefresh,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.refreshTokenExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UserByID resolves a verified token's subject to a stored user. A
// valid token for a deleted user is treated as unauthorized by the
// caller.
func (s *AuthService) UserByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
