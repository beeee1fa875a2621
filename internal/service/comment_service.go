package service

import (
	"context"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// AddComment appends a trimmed comment and returns it with the post's new comment count.
func (s *CommentService) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, models.NewValidationError("Comment text is required")
	}
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, 0, storeError(err, "Post")
	}

	comment := &models.Comment{PostID: postID, UserID: authorID, Text: text}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, 0, storeError(err, "Post")
	}

	count, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, 0, storeError(err, "Post")
	}
	return comment, count, nil
}

// ListComments returns the post's comments in insertion order.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, storeError(err, "Post")
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, storeError(err, "Post")
	}
	return comments, nil
}
