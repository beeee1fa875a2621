package server

import (
	"io"
	"strconv"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/service"
	"socialfeed/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Paginated feed. filter is one of default, most-liked, most-commented, most-shared.
// @Tags posts
// @Produce json
// @Param filter query string false "Sort filter"
// @Param page query int false "Page number (1-indexed)"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} feedResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, err := s.feedService.ListPosts(c.UserContext(), service.ListPostsInput{
		Filter:        c.Query("filter"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", service.DefaultPageSize),
		CurrentUserID: s.optionalUserID(c),
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(feedResponse{
		Posts:       toPostResponses(page.Posts),
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalPosts:  page.TotalPosts,
	})
}

// SearchPosts handles GET /api/posts/search
// @Summary Search posts
// @Description Case-insensitive substring search over post text, newest first, at most 50 results.
// @Tags posts
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} object{posts=[]postResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.feedService.SearchPosts(c.UserContext(), c.Query("q"), s.optionalUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": toPostResponses(posts)})
}

// GetPost handles GET /api/posts/:postId
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} object{post=postResponse}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	post, err := s.postService.GetPost(c.UserContext(), postID, s.optionalUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"post": toPostResponse(post)})
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Accepts multipart/form-data with optional image (jpeg, png, gif or webp, at most 5MB) or a JSON body without image.
// @Tags posts
// @Accept mpfd
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param text formData string false "Post text"
// @Param isPromotion formData bool false "Promotion flag"
// @Param image formData file false "Image"
// @Success 201 {object} object{message=string,post=postResponse}
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{UserID: currentUserID(c)}

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		in.Text = c.FormValue("text")
		in.IsPromotion = c.FormValue("isPromotion") == "true"

		ref, err := s.saveUpload(c)
		if err != nil {
			return s.respondError(c, err)
		}
		in.Image = ref
	} else {
		var req struct {
			Text        string `json:"text"`
			IsPromotion bool   `json:"isPromotion"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Text = req.Text
		in.IsPromotion = req.IsPromotion
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    toPostResponse(post),
	})
}

// saveUpload validates and stores the "image" form file. It returns "" when no image was sent.
func (s *Server) saveUpload(c *fiber.Ctx) (string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return "", models.NewValidationError("Invalid multipart form")
	}
	files := form.File["image"]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]

	maxBytes := s.config.UploadMaxBytes()
	if fh.Size > maxBytes {
		return "", models.NewValidationError("File too large (max " + strconv.FormatInt(maxBytes/(1024*1024), 10) + "MB)")
	}
	f, err := fh.Open()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	img, err := storage.ValidateImage(fh.Filename, data, maxBytes)
	if err != nil {
		return "", err
	}
	if s.images == nil {
		return "", models.NewInternalError(errNoImageStore)
	}
	ref, err := s.images.Save(c.UserContext(), img)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return ref, nil
}

// ToggleLike handles PUT /api/posts/:postId/like
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} object{message=string,liked=bool,likeCount=int}
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/like [put]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	liked, count, err := s.feedService.ToggleLike(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"liked":     liked,
		"likeCount": count,
	})
}

// DeletePost handles DELETE /api/posts/:postId
// @Summary Delete a post
// @Description Only the owner may delete a post. Its image is removed as well.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}
