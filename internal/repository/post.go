package repository

import (
	"context"
	"strings"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// Feed filters accepted by List. Anything else sorts as FilterDefault.
const (
	FilterDefault       = "default"
	FilterMostLiked     = "most-liked"
	FilterMostCommented = "most-commented"
	FilterMostShared    = "most-shared"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, filter string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// FindByID loads the bare post row without joins.
func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID))
	err := applySort(base, filter).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error
	return total, err
}

// applySort appends the ORDER BY clause for the requested filter. likes_count and
// comments_count are SELECT aliases from applyPostDetails. Every order ends with
// created_at and id so ties have a stable total order.
func applySort(db *gorm.DB, filter string) *gorm.DB {
	const tail = "posts.created_at DESC, posts.id DESC"
	switch filter {
	case FilterMostLiked:
		return db.Order("likes_count DESC, " + tail)
	case FilterMostCommented:
		return db.Order("comments_count DESC, " + tail)
	case FilterMostShared:
		return db.Order("posts.shares DESC, " + tail)
	default:
		return db.Order(tail)
	}
}

// Search matches query as a case-insensitive literal substring of the post text.
func (r *postRepository) Search(ctx context.Context, query string, limit int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + escapeLike(strings.ToLower(query)) + "%"
	err := r.withAssociations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Where("LOWER(posts.text) LIKE ? ESCAPE '\\'", like).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// withAssociations preloads the author, likes and comments (in insertion order) with their authors.
func (r *postRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("likes.id ASC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User")
}

// Delete removes the post together with its likes and comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ToggleLike reports whether userID likes postID after the transition.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	res, err := Toggle(ctx, r.db, "like", models.Like{UserID: userID, PostID: postID})
	if err != nil {
		return false, err
	}
	return res == Added, nil
}

// LikeCount is the cardinality of the post's like-set.
func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
