package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oktavandi/tasknest/internal/domain/entity"
	repo "github.com/oktavandi/tasknest/internal/domain/repository"
	"github.com/oktavandi/tasknest/pkg/helpers"
)

// AuthService handles registration, login and bearer-token resolution.
type AuthService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Logger: logger, BcryptCost: bcryptCost}
}

// AuthResult is what register and login hand back: a signed token plus
// the account it is bound to.
type AuthResult struct {
	Token  string
	Expiry time.Time
	User   *entity.User
}

// Register creates a new account with an empty task list and issues a
// token for it. Duplicate emails surface as
// repository.ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = entity.NormalizeEmail(email)

	if existing, err := s.Repo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, repo.ErrDuplicateEmail
	}

	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Tasks:        []entity.Task{},
	}
	// The unique index still guards the race between the pre-check and
	// the insert.
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return &AuthResult{Token: token, Expiry: exp, User: u}, nil
}

// Login verifies credentials and issues a token. Unknown email and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Expiry: exp, User: u}, nil
}

// Authenticate resolves a bearer token to its full user aggregate. A
// token whose user has vanished is as invalid as a forged one.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}
