// Package seed provides helpers to create demo data for the feed database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"socialfeed/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options tunes what the factory generates.
type Options struct {
	// MaxDays spreads generated post timestamps over this many past days.
	MaxDays int
	// SkipBcrypt stores a cheap hash. Only for tests.
	SkipBcrypt bool
	// Seed makes generated content deterministic when non-zero.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	opts   Options
	faker  *gofakeit.Faker
	rnd    *rand.Rand
	hashed string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cost := bcrypt.DefaultCost
	if opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, err
	}

	return &Factory{
		db:    db,
		opts:  opts,
		faker: gofakeit.New(seed),
		// #nosec G404: acceptable for seeding
		rnd:    rand.New(rand.NewSource(seed)),
		hashed: string(hash),
	}, nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	username := fmt.Sprintf("%s%s%d", strings.ToLower(first), strings.ToLower(last), f.faker.Number(100, 9999))
	email := fmt.Sprintf("%s@%s", username, f.faker.DomainName())

	user := models.NewUser(first, last, username, email, f.hashed)
	user.Avatar = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for user without persisting it.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:      user.ID,
		Text:        f.faker.Sentence(f.faker.Number(4, 16)),
		IsPromotion: f.rnd.Intn(10) == 0,
		Shares:      f.rnd.Intn(25),
	}
	if f.rnd.Intn(3) == 0 {
		post.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rnd.Intn(maxDays)
	hoursBack := f.rnd.Intn(24)
	minsBack := f.rnd.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
	post.UpdatedAt = post.CreatedAt

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost persists a generated post for the given user.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(user, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}

// Follow makes follower follow followee unless the edge already exists.
func (f *Factory) Follow(follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return nil
	}
	edge := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
	return f.db.Where(edge).FirstOrCreate(&models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}).Error
}

// Like adds user to the post's like-set unless already present.
func (f *Factory) Like(user *models.User, post *models.Post) error {
	return f.db.Where(models.Like{UserID: user.ID, PostID: post.ID}).
		FirstOrCreate(&models.Like{UserID: user.ID, PostID: post.ID}).Error
}

// Comment appends a generated comment by user to the post.
func (f *Factory) Comment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Text:   f.faker.Sentence(f.faker.Number(3, 12)),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
