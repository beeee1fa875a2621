package service

import (
	"context"
	"log/slog"

	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

// AssetStore removes stored images by the reference recorded on the post.
type AssetStore interface {
	Delete(ctx context.Context, ref string) error
}

type PostService struct {
	postRepo repository.PostRepository
	assets   AssetStore
}

type CreatePostInput struct {
	UserID      uint
	Text        string
	Image       string
	IsPromotion bool
}

func NewPostService(postRepo repository.PostRepository, assets AssetStore) *PostService {
	return &PostService{postRepo: postRepo, assets: assets}
}

// CreatePost records a post. Image, if set, references an asset already stored;
// the asset is removed again when the post cannot be saved.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !models.HasContent(in.Text, in.Image) {
		return nil, models.NewValidationError("Post must have text or image")
	}

	post := &models.Post{
		UserID:      in.UserID,
		Text:        in.Text,
		Image:       in.Image,
		IsPromotion: in.IsPromotion,
		Shares:      0,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeAsset(ctx, in.Image)
		return nil, storeError(err, "Post")
	}

	created, err := s.postRepo.GetByID(ctx, post.ID, in.UserID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return post, nil
}

// DeletePost removes the post record first; failing to remove its image only logs a warning.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return storeError(err, "Post")
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("Not authorized to delete this post")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return storeError(err, "Post")
	}

	s.removeAsset(ctx, post.Image)
	return nil
}

func (s *PostService) removeAsset(ctx context.Context, ref string) {
	if ref == "" || s.assets == nil {
		return
	}
	if err := s.assets.Delete(ctx, ref); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to delete post image",
			slog.String("image", ref),
			slog.String("error", err.Error()),
		)
	}
}
