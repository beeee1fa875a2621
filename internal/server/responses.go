package server

import (
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
	"socialfeed/internal/service"

	"github.com/shopspring/decimal"
)

// userResponse is the account view returned to its owner.
type userResponse struct {
	ID        uint            `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Avatar    string          `json:"avatar"`
	Coins     int             `json:"coins"`
	Balance   decimal.Decimal `json:"balance"`
}

type meResponse struct {
	userResponse
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

type profileResponse struct {
	models.UserSummary
	Followers   int64 `json:"followers"`
	Following   int64 `json:"following"`
	IsFollowing bool  `json:"isFollowing"`
}

type commentResponse struct {
	ID        uint               `json:"id"`
	User      models.UserSummary `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}

type postResponse struct {
	ID           uint               `json:"id"`
	User         models.UserSummary `json:"user"`
	Text         string             `json:"text"`
	Image        string             `json:"image,omitempty"`
	IsPromotion  bool               `json:"isPromotion"`
	Shares       int                `json:"shares"`
	Likes        []uint             `json:"likes"`
	LikeCount    int                `json:"likeCount"`
	CommentCount int                `json:"commentCount"`
	Liked        bool               `json:"liked"`
	Comments     []commentResponse  `json:"comments"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type feedResponse struct {
	Posts       []postResponse `json:"posts"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalPosts  int64          `json:"totalPosts"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Coins:     u.Coins,
		Balance:   u.Balance,
	}
}

func toMeResponse(u *models.User, counts repository.FollowCounts) meResponse {
	return meResponse{
		userResponse: toUserResponse(u),
		Followers:    counts.Followers,
		Following:    counts.Following,
	}
}

func toProfileResponse(p *service.Profile) profileResponse {
	return profileResponse{
		UserSummary: p.User,
		Followers:   p.Counts.Followers,
		Following:   p.Counts.Following,
		IsFollowing: p.IsFollowing,
	}
}

func toCommentResponse(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		User:      c.User.Summary(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toPostResponse(p *models.Post) postResponse {
	likes := make([]uint, 0, len(p.Likes))
	for _, l := range p.Likes {
		likes = append(likes, l.UserID)
	}
	comments := make([]commentResponse, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, toCommentResponse(&p.Comments[i]))
	}
	return postResponse{
		ID:           p.ID,
		User:         p.User.Summary(),
		Text:         p.Text,
		Image:        p.Image,
		IsPromotion:  p.IsPromotion,
		Shares:       p.Shares,
		Likes:        likes,
		LikeCount:    p.LikesCount,
		CommentCount: p.CommentsCount,
		Liked:        p.Liked,
		Comments:     comments,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPostResponses(posts []*models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
