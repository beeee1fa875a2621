package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"socialfeed/internal/cache"
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// maxRegisterAttempts bounds retries when a concurrent signup claims the chosen username.
const maxRegisterAttempts = 3

// dummyHash is compared against when the email is unknown so both login failures cost the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("socialfeed-timing-equalizer"), bcrypt.DefaultCost)

type AuthService struct {
	users    repository.UserRepository
	tokens   *TokenIssuer
	hashCost int
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is a user together with a freshly issued session token.
type AuthResult struct {
	Token   string
	Session *Session
	User    *models.User
}

// CurrentUser is the authenticated user with the size of both follow sides.
type CurrentUser struct {
	User   *models.User
	Counts repository.FollowCounts
}

func NewAuthService(users repository.UserRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, models.NewValidationError("Please fill in all fields")
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var user *models.User
	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		username, err := s.pickUsername(ctx, in.FirstName, in.LastName)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user = models.NewUser(in.FirstName, in.LastName, username, in.Email, string(hash))
		err = s.users.Create(ctx, user)
		if err == nil {
			break
		}
		user = nil
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, models.NewConflictError("User with this email already exists")
		case errors.Is(err, repository.ErrUsernameTaken):
			middleware.Logger.InfoContext(ctx, "username claimed concurrently, retrying", slog.String("username", username))
			continue
		default:
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewConflictError("Could not allocate a unique username, please retry")
	}

	return s.issue(user)
}

// Authenticate returns the same error for an unknown email and a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, models.NewValidationError("Please provide email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, models.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	return s.issue(user)
}

// ResolveSession verifies the token, rejects revoked tokens and confirms the user still exists.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.User, *Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := cache.IsRevoked(ctx, session.TokenID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "token revocation check failed", slog.String("error", err.Error()))
	}
	if revoked {
		return nil, nil, models.NewUnauthorizedError("Token has been revoked")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}
	if err := cache.Revoke(ctx, session.TokenID, time.Until(session.ExpiresAt)); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*CurrentUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.users.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CurrentUser{User: user, Counts: counts}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, session, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{Token: token, Session: session, User: user}, nil
}
