package server

import (
	"socialfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:postId/comment
// @Summary Comment on a post
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} object{message=string,comment=commentResponse,commentCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comment [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, count, err := s.commentService.AddComment(c.UserContext(), postID, currentUserID(c), req.Text)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Comment added successfully",
		"comment":      toCommentResponse(comment),
		"commentCount": count,
	})
}

// GetComments handles GET /api/posts/:postId/comments
// @Summary List a post's comments
// @Description Comments in the order they were added.
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} object{comments=[]commentResponse,commentCount=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"comments":     toCommentResponses(comments),
		"commentCount": len(comments),
	})
}
