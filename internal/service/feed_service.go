package service

import (
	"context"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"
	"socialfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	SearchLimit     = 50
)

type FeedService struct {
	postRepo repository.PostRepository
}

type ListPostsInput struct {
	Filter        string
	Page          int
	Limit         int
	CurrentUserID uint
}

// FeedPage is one page of the feed with pagination totals.
type FeedPage struct {
	Posts       []*models.Post
	CurrentPage int
	TotalPages  int
	TotalPosts  int64
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// NormalizeFilter maps unknown filters to the default newest-first order.
func NormalizeFilter(filter string) string {
	switch filter {
	case repository.FilterMostLiked, repository.FilterMostCommented, repository.FilterMostShared:
		return filter
	default:
		return repository.FilterDefault
	}
}

func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) (page *FeedPage, err error) {
	filter := NormalizeFilter(in.Filter)
	ctx, finish := observability.StartSpan(ctx, "FeedService.ListPosts", attribute.String("filter", filter))
	defer func() { finish(err) }()

	pageNum := in.Page
	if pageNum < 1 {
		pageNum = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts, err := s.postRepo.List(ctx, filter, limit, (pageNum-1)*limit, in.CurrentUserID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, storeError(err, "Post")
	}

	return &FeedPage{
		Posts:       posts,
		CurrentPage: pageNum,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalPosts:  total,
	}, nil
}

// SearchPosts returns up to SearchLimit posts whose text contains query, newest first.
func (s *FeedService) SearchPosts(ctx context.Context, query string, currentUserID uint) ([]*models.Post, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query required")
	}
	posts, err := s.postRepo.Search(ctx, query, SearchLimit, currentUserID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return posts, nil
}

// ToggleLike flips actorID's like on postID. The count is read back from the like-set.
func (s *FeedService) ToggleLike(ctx context.Context, postID, actorID uint) (liked bool, count int64, err error) {
	ctx, finish := observability.StartSpan(ctx, "FeedService.ToggleLike",
		attribute.Int64("post_id", int64(postID)),
		attribute.Int64("actor_id", int64(actorID)),
	)
	defer func() { finish(err) }()

	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return false, 0, storeError(err, "Post")
	}
	liked, err = s.postRepo.ToggleLike(ctx, actorID, postID)
	if err != nil {
		return false, 0, storeError(err, "Post")
	}
	count, err = s.postRepo.LikeCount(ctx, postID)
	if err != nil {
		return false, 0, storeError(err, "Post")
	}
	return liked, count, nil
}
