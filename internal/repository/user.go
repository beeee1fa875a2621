package repository

import (
	"context"
	"errors"
	"strings"

	"socialfeed/internal/cache"
	"socialfeed/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

var (
	// ErrEmailTaken is returned by Create when the email unique index rejects the row.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned by Create when the username unique index rejects the row.
	ErrUsernameTaken = errors.New("username already taken")
)

// FollowCounts holds both sides of a user's follow graph.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernamesWithPrefix(ctx context.Context, prefix string) (map[string]struct{}, error)
	Create(ctx context.Context, user *models.User) error
	Counts(ctx context.Context, id uint) (FollowCounts, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User")
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) UsernamesWithPrefix(ctx context.Context, prefix string) (map[string]struct{}, error) {
	var names []string
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Pluck("username", &names).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	taken := make(map[string]struct{}, len(names))
	for _, n := range names {
		taken[n] = struct{}{}
	}
	return taken, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(strings.ToLower(violatedConstraint(err)), "email") {
				return ErrEmailTaken
			}
			return ErrUsernameTaken
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Counts(ctx context.Context, id uint) (FollowCounts, error) {
	var counts FollowCounts
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", id).Count(&counts.Followers).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", id).Count(&counts.Following).Error; err != nil {
		return counts, models.NewInternalError(err)
	}
	return counts, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// violatedConstraint names the index a unique violation hit. SQLite only reports
// it in the message, so the message is the fallback.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return err.Error()
}

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
