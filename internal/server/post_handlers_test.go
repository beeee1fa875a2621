package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"socialfeed/internal/models"
	"socialfeed/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockImageStore is a mock of the ImageStore interface
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, img *storage.Image) (string, error) {
	args := m.Called(ctx, img)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type postBody struct {
	Message string       `json:"message"`
	Post    postResponse `json:"post"`
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup(t, "Ada", "Lovelace", "ada@example.com")

	t.Run("JSON text post", func(t *testing.T) {
		var res postBody
		status := ts.call(t, http.MethodPost, "/api/posts", user.Token, map[string]any{
			"text": "hello world", "isPromotion": true,
		}, &res)
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Post created successfully", res.Message)
		assert.Equal(t, "hello world", res.Post.Text)
		assert.True(t, res.Post.IsPromotion)
		assert.Equal(t, user.User.ID, res.Post.User.ID)
		assert.Equal(t, "adalovelace", res.Post.User.Username)
		assert.Empty(t, res.Post.Likes)
		assert.Empty(t, res.Post.Comments)
		assert.Zero(t, res.Post.Shares)
	})

	t.Run("Blank post rejected", func(t *testing.T) {
		var res errorBody
		status := ts.call(t, http.MethodPost, "/api/posts", user.Token, map[string]any{"text": "   "}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Post must have text or image", res.Error)
	})

	t.Run("Multipart with image", func(t *testing.T) {
		req := multipartPost(t, map[string]string{"isPromotion": "true"}, "pic.png", tinyPNG(t))
		var res postBody
		require.Equal(t, http.StatusCreated, ts.send(t, req, user.Token, &res))
		assert.Empty(t, res.Post.Text)
		assert.True(t, res.Post.IsPromotion)
		require.True(t, strings.HasPrefix(res.Post.Image, storage.PublicPrefix))

		name := strings.TrimPrefix(res.Post.Image, storage.PublicPrefix)
		assert.True(t, strings.HasSuffix(name, ".png"))
		_, err := os.Stat(filepath.Join(ts.store.Dir(), name))
		require.NoError(t, err)

		served := httptest.NewRequest(http.MethodGet, res.Post.Image, nil)
		assert.Equal(t, http.StatusOK, ts.send(t, served, "", nil))
	})

	t.Run("Multipart without image or text", func(t *testing.T) {
		req := multipartPost(t, map[string]string{"text": ""}, "", nil)
		var res errorBody
		assert.Equal(t, http.StatusBadRequest, ts.send(t, req, user.Token, &res))
		assert.Equal(t, "Post must have text or image", res.Error)
	})

	t.Run("Disallowed file type", func(t *testing.T) {
		req := multipartPost(t, map[string]string{"text": "look"}, "notes.txt", []byte("just text"))
		var res errorBody
		assert.Equal(t, http.StatusBadRequest, ts.send(t, req, user.Token, &res))
		assert.Equal(t, "Only image files are allowed", res.Error)
	})

	t.Run("Disguised file rejected", func(t *testing.T) {
		req := multipartPost(t, map[string]string{"text": "look"}, "fake.png", []byte("definitely not a png"))
		var res errorBody
		assert.Equal(t, http.StatusBadRequest, ts.send(t, req, user.Token, &res))
		assert.Equal(t, models.CodeValidation, res.Code)
	})

	t.Run("Oversized file rejected", func(t *testing.T) {
		big := append(tinyPNG(t), make([]byte, 1024*1024)...)
		req := multipartPost(t, map[string]string{"text": "big"}, "big.png", big)
		var res errorBody
		assert.Equal(t, http.StatusBadRequest, ts.send(t, req, user.Token, &res))
		assert.Contains(t, res.Error, "File too large")
	})

	var count int64
	require.NoError(t, ts.db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCreatePost_ImageStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup(t, "Ada", "Lovelace", "ada@example.com")

	images := new(MockImageStore)
	images.On("Save", mock.Anything, mock.Anything).Return("", errors.New("disk full"))
	ts.images = images

	req := multipartPost(t, map[string]string{"text": "with picture"}, "pic.png", tinyPNG(t))
	var res errorBody
	assert.Equal(t, http.StatusInternalServerError, ts.send(t, req, user.Token, &res))
	assert.Equal(t, "Internal server error", res.Error)
	images.AssertExpectations(t)

	var count int64
	require.NoError(t, ts.db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPosts(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup(t, "Alice", "A", "alice@example.com")
	bob := ts.signup(t, "Bob", "B", "bob@example.com")

	ids := make([]uint, 4)
	for i := range ids {
		ids[i] = ts.createTextPost(t, alice.Token, fmt.Sprintf("post %d", i))
	}

	for _, id := range []uint{ids[1], ids[2]} {
		require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, fmt.Sprintf("/api/posts/%d/like", id), bob.Token, nil, nil))
	}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, fmt.Sprintf("/api/posts/%d/like", ids[2]), alice.Token, nil, nil))

	t.Run("Newest first with pagination", func(t *testing.T) {
		var res feedResponse
		require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/posts?page=1&limit=3", "", nil, &res))
		require.Len(t, res.Posts, 3)
		assert.Equal(t, ids[3], res.Posts[0].ID)
		assert.Equal(t, ids[1], res.Posts[2].ID)
		assert.Equal(t, 1, res.CurrentPage)
		assert.Equal(t, 2, res.TotalPages)
		assert.Equal(t, int64(4), res.TotalPosts)
		for _, p := range res.Posts {
			assert.False(t, p.Liked)
		}
	})

	t.Run("Most liked", func(t *testing.T) {
		var res feedResponse
		require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/posts?filter=most-liked", bob.Token, nil, &res))
		require.Len(t, res.Posts, 4)
		assert.Equal(t, ids[2], res.Posts[0].ID)
		assert.Equal(t, 2, res.Posts[0].LikeCount)
		assert.ElementsMatch(t, []uint{alice.User.ID, bob.User.ID}, res.Posts[0].Likes)
		assert.True(t, res.Posts[0].Liked)
		assert.Equal(t, ids[1], res.Posts[1].ID)
		assert.False(t, res.Posts[2].Liked)
	})

	t.Run("Unknown filter falls back to newest", func(t *testing.T) {
		var res feedResponse
		require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/posts?filter=bogus", "", nil, &res))
		require.NotEmpty(t, res.Posts)
		assert.Equal(t, ids[3], res.Posts[0].ID)
	})

	t.Run("Single post", func(t *testing.T) {
		var res postBody
		require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", ids[2]), alice.Token, nil, &res))
		assert.Equal(t, "post 2", res.Post.Text)
		assert.Equal(t, 2, res.Post.LikeCount)
		assert.True(t, res.Post.Liked)
	})

	t.Run("Missing post", func(t *testing.T) {
		var res errorBody
		assert.Equal(t, http.StatusNotFound, ts.call(t, http.MethodGet, "/api/posts/9999", "", nil, &res))
		assert.Equal(t, "Post not found", res.Error)
	})
}

func TestSearchPosts(t *testing.T) {
	ts := newTestServer(t)
	user := ts.signup(t, "Searcher", "One", "s@example.com")
	ts.createTextPost(t, user.Token, "Hello World")
	ts.createTextPost(t, user.Token, "say hello again")
	ts.createTextPost(t, user.Token, "nothing here")

	type searchBody struct {
		Posts []postResponse `json:"posts"`
	}

	var res searchBody
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/posts/search?q=HELLO", "", nil, &res))
	require.Len(t, res.Posts, 2)
	assert.Equal(t, "say hello again", res.Posts[0].Text)

	res = searchBody{}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/posts/search?q=zzz", "", nil, &res))
	assert.NotNil(t, res.Posts)
	assert.Empty(t, res.Posts)

	var bad errorBody
	assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodGet, "/api/posts/search?q=%20", "", nil, &bad))
	assert.Equal(t, "Search query required", bad.Error)
}

func TestToggleLike(t *testing.T) {
	ts := newTestServer(t)
	author := ts.signup(t, "Author", "One", "author@example.com")
	fan := ts.signup(t, "Fan", "Two", "fan@example.com")
	postID := ts.createTextPost(t, author.Token, "like me")
	path := fmt.Sprintf("/api/posts/%d/like", postID)

	type likeBody struct {
		Message   string `json:"message"`
		Liked     bool   `json:"liked"`
		LikeCount int64  `json:"likeCount"`
	}

	var res likeBody
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, path, fan.Token, nil, &res))
	assert.Equal(t, likeBody{Message: "Post liked", Liked: true, LikeCount: 1}, res)

	res = likeBody{}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, path, author.Token, nil, &res))
	assert.Equal(t, int64(2), res.LikeCount)

	res = likeBody{}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, path, fan.Token, nil, &res))
	assert.Equal(t, likeBody{Message: "Post unliked", Liked: false, LikeCount: 1}, res)

	var missing errorBody
	assert.Equal(t, http.StatusNotFound, ts.call(t, http.MethodPut, "/api/posts/9999/like", fan.Token, nil, &missing))
}

func TestDeletePost(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.signup(t, "Owner", "One", "owner@example.com")
	other := ts.signup(t, "Other", "Two", "other@example.com")

	req := multipartPost(t, map[string]string{"text": "mine"}, "pic.png", tinyPNG(t))
	var created postBody
	require.Equal(t, http.StatusCreated, ts.send(t, req, owner.Token, &created))
	postID := created.Post.ID
	path := fmt.Sprintf("/api/posts/%d", postID)

	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, path+"/like", other.Token, nil, nil))
	require.Equal(t, http.StatusCreated, ts.call(t, http.MethodPost, path+"/comment", other.Token, map[string]string{"text": "nice"}, nil))

	var forbidden errorBody
	assert.Equal(t, http.StatusForbidden, ts.call(t, http.MethodDelete, path, other.Token, nil, &forbidden))
	assert.Equal(t, "Not authorized to delete this post", forbidden.Error)
	assert.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, path, "", nil, nil))

	var deleted struct {
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodDelete, path, owner.Token, nil, &deleted))
	assert.Equal(t, "Post deleted successfully", deleted.Message)

	assert.Equal(t, http.StatusNotFound, ts.call(t, http.MethodGet, path, "", nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.call(t, http.MethodDelete, path, owner.Token, nil, nil))

	var likes, comments int64
	require.NoError(t, ts.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes).Error)
	require.NoError(t, ts.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments).Error)
	assert.Zero(t, likes)
	assert.Zero(t, comments)

	_, err := os.Stat(filepath.Join(ts.store.Dir(), strings.TrimPrefix(created.Post.Image, storage.PublicPrefix)))
	assert.True(t, os.IsNotExist(err))
}
