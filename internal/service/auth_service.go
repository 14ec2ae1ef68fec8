package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	// ErrUsernameTaken signals a duplicate registration attempt.
	ErrUsernameTaken = errors.New("username already registered")
	// ErrInvalidCredentials covers bad login credentials and bad/expired
	// tokens alike; callers must not learn which case occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthConfig holds the token signing parameters, loaded once at startup.
type AuthConfig struct {
	SigningKey string
	Algorithm  string // HS256 | HS384 | HS512
	TokenTTL   time.Duration
}

const defaultAlgorithm = "HS256"

// AuthService handles registration, login and token verification.
type AuthService struct {
	authRepo repository.Authorization
	key      []byte
	method   jwt.SigningMethod
	ttl      time.Duration
}

// NewAuthService builds an AuthService from the injected config. Unknown or
// non-HMAC algorithm names fall back to HS256.
func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	method := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(cfg.Algorithm)))
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.GetSigningMethod(defaultAlgorithm)
	}
	return &AuthService{
		authRepo: repo,
		key:      []byte(cfg.SigningKey),
		method:   method,
		ttl:      cfg.TokenTTL,
	}
}

// Register hashes the password and creates the user. A taken username yields
// ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, in models.RegisterRequest) (models.User, error) {
	existing, err := s.authRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid password: %w", err)
	}

	u := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		PasswordHash: hash,
	}
	id, err := s.authRepo.Create(ctx, u)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	return u, nil
}

// Login validates credentials and returns a signed token. Unknown username
// and wrong password both collapse to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.authRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueToken(u.Username)
}

// Authenticate verifies the token and resolves the user it names. Any
// failure (signature, expiry, malformed token, unknown subject) yields
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.User, error) {
	subject, err := s.parseToken(accessToken)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	u, err := s.authRepo.GetByUsername(ctx, subject)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrInvalidCredentials
	}
	return *u, nil
}

// issueToken signs a token whose subject is the username, valid for the
// configured ttl.
func (s *AuthService) issueToken(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(s.method, &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})
	return token.SignedString(s.key)
}

// parseToken validates signature and expiry and returns the subject.
func (s *AuthService) parseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
	)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash. bcrypt compares in constant time
// and simply fails on a malformed hash.
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
