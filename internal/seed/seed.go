package seed

import (
	"fmt"
	"log"
	"math/rand"

	"socialfeed/internal/database"
	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// Counts sizes a seeding run.
type Counts struct {
	Users    int
	Posts    int
	Follows  int // per user, upper bound
	Likes    int // per post, upper bound
	Comments int // per post, upper bound
}

// Seeder fills the database with a connected social graph and engagement.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	rnd     *rand.Rand
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, factory: factory, rnd: factory.rnd}, nil
}

// Result summarizes what a run created.
type Result struct {
	Users    []*models.User
	Posts    []*models.Post
	Follows  int
	Likes    int
	Comments int
}

// ClearAll removes every seeded table's rows, children first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	tables := database.Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(tables[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", tables[i], err)
		}
	}
	return nil
}

// Run creates users, follow edges, posts, likes and comments.
func (s *Seeder) Run(c Counts) (*Result, error) {
	res := &Result{}

	for i := 0; i < c.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create users: %w", err)
		}
		res.Users = append(res.Users, u)
	}
	log.Printf("✓ %d users created", len(res.Users))
	if len(res.Users) == 0 {
		return res, nil
	}

	for _, u := range res.Users {
		for _, target := range s.pick(res.Users, c.Follows) {
			if target.ID == u.ID {
				continue
			}
			if err := s.factory.Follow(u, target); err != nil {
				return nil, fmt.Errorf("failed to create follows: %w", err)
			}
			res.Follows++
		}
	}
	log.Printf("✓ %d follow edges created", res.Follows)

	posts := make([]*models.Post, 0, c.Posts)
	for i := 0; i < c.Posts; i++ {
		author := res.Users[s.rnd.Intn(len(res.Users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	res.Posts = posts
	log.Printf("✓ %d posts created", len(posts))

	for _, p := range posts {
		for _, u := range s.pick(res.Users, c.Likes) {
			if err := s.factory.Like(u, p); err != nil {
				return nil, fmt.Errorf("failed to create likes: %w", err)
			}
			res.Likes++
		}
		if c.Comments <= 0 {
			continue
		}
		for i := s.rnd.Intn(c.Comments + 1); i > 0; i-- {
			author := res.Users[s.rnd.Intn(len(res.Users))]
			if _, err := s.factory.Comment(author, p); err != nil {
				return nil, fmt.Errorf("failed to create comments: %w", err)
			}
			res.Comments++
		}
	}
	log.Printf("✓ %d likes and %d comments created", res.Likes, res.Comments)

	return res, nil
}

// pick returns up to n distinct users chosen at random.
func (s *Seeder) pick(users []*models.User, n int) []*models.User {
	if n <= 0 {
		return nil
	}
	if n > len(users) {
		n = len(users)
	}
	k := s.rnd.Intn(n + 1)
	out := make([]*models.User, 0, k)
	for _, i := range s.rnd.Perm(len(users))[:k] {
		out = append(out, users[i])
	}
	return out
}
