package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:userId
// @Summary Public user profile
// @Description Get a user's public summary with follow counts. isFollowing reflects the caller when authenticated.
// @Tags users
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{user=profileResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{userId} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.followService.Profile(c.UserContext(), userID, s.optionalUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": toProfileResponse(profile)})
}
