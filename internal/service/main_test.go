package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialfeed/internal/database"
	"socialfeed/internal/models"
	"socialfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	follows  repository.FollowRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		follows:  repository.NewFollowRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
	}
	env.auth = NewAuthService(env.users, NewTokenIssuer(testSecret, 7*24*time.Hour))
	env.auth.hashCost = bcrypt.MinCost
	return env
}

func (e *testEnv) register(t *testing.T, first, last, email string) *models.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), RegisterInput{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "password123",
	})
	require.NoError(t, err)
	return res.User
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

// assetStoreStub records deletions and can be told to fail.
type assetStoreStub struct {
	deleted []string
	err     error
}

func (s *assetStoreStub) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return s.err
}
