package service

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
)

const (
	tokenIssuer       = "fitcoach"
	minPasswordLength = 8
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	// Login checks the password and issues a signed token whose subject is the user id.
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// ValidateToken verifies a signed token and returns the user id it was issued for.
	ValidateToken(tokenString string) (string, error)
	CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration
	now           func() time.Time
}

// NewAuthService panics on an empty secret. A non-positive expiration means one hour.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	const op = "auth.register"
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, invalidInput(op, "name is required")
	case email == "":
		return nil, invalidInput(op, "email is required")
	case len(password) < minPasswordLength:
		return nil, invalidInput(op, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal(op, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{Name: name, Email: email, PasswordHash: string(hash)}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost a race against a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, internal(op, err)
	}
	user.ID = id
	user.PasswordHash = ""

	log.WithField("user", id.Hex()).Info("user registered")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ErrAuthenticationFailed
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrAuthenticationFailed
		}
		return "", nil, internal("auth.login", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	now := s.now().UTC()
	token, err := s.issueToken(user.ID, now)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	out := withoutHash(user)
	if err := s.userRepo.RecordLogin(ctx, user.ID, now); err != nil {
		log.WithError(err).WithField("user", user.ID.Hex()).Warn("failed to record login")
	} else {
		out.LastLoginAt = &now
	}
	return token, out, nil
}

// withoutHash copies the account with the password hash cleared, leaving the
// repository's value alone.
func withoutHash(user *domain.User) *domain.User {
	out := *user
	out.PasswordHash = ""
	return &out
}

func (s *authService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "auth.me", "user not found")
	}
	return withoutHash(user), nil
}

func (s *authService) issueToken(userID primitive.ObjectID, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || !claims.VerifyIssuer(tokenIssuer, true) {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
