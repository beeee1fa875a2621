package server

import (
	"fmt"
	"net/http"
	"testing"

	"socialfeed/internal/cache"
	"socialfeed/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	created := ts.signup(t, "Ada", "Lovelace", "Ada@Example.com")
	assert.Equal(t, "User registered successfully", created.Message)
	assert.Equal(t, "adalovelace", created.User.Username)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.Equal(t, models.DefaultCoins, created.User.Coins)
	assert.True(t, created.User.Balance.IsZero())

	t.Run("Duplicate email", func(t *testing.T) {
		var res errorBody
		status := ts.call(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"firstName": "Other", "lastName": "Person", "email": "ada@example.com", "password": "x",
		}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "User with this email already exists", res.Error)
	})

	t.Run("Missing fields", func(t *testing.T) {
		var res errorBody
		status := ts.call(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"firstName": "Only",
		}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Please fill in all fields", res.Error)
	})

	t.Run("Login", func(t *testing.T) {
		var res authBody
		status := ts.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ADA@example.com", "password": "password123",
		}, &res)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Login successful", res.Message)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, created.User.ID, res.User.ID)
	})

	t.Run("Login failures are indistinguishable", func(t *testing.T) {
		var wrongPassword, unknownEmail errorBody
		s1 := ts.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ada@example.com", "password": "nope",
		}, &wrongPassword)
		s2 := ts.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "ghost@example.com", "password": "nope",
		}, &unknownEmail)
		assert.Equal(t, http.StatusBadRequest, s1)
		assert.Equal(t, s1, s2)
		assert.Equal(t, wrongPassword, unknownEmail)
		assert.Equal(t, "Invalid credentials", wrongPassword.Error)
	})

	t.Run("Login missing fields", func(t *testing.T) {
		var res errorBody
		status := ts.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com"}, &res)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Please provide email and password", res.Error)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{name: "Me without token", method: http.MethodGet, path: "/api/auth/me"},
		{name: "Me with garbage token", method: http.MethodGet, path: "/api/auth/me", token: "not-a-jwt"},
		{name: "Follow without token", method: http.MethodPut, path: "/api/auth/follow/1"},
		{name: "Create post without token", method: http.MethodPost, path: "/api/posts"},
		{name: "Like without token", method: http.MethodPut, path: "/api/posts/1/like"},
		{name: "Comment without token", method: http.MethodPost, path: "/api/posts/1/comment"},
		{name: "Delete without token", method: http.MethodDelete, path: "/api/posts/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res errorBody
			status := ts.call(t, tt.method, tt.path, tt.token, nil, &res)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, models.CodeUnauthorized, res.Code)
		})
	}
}

func TestMeAndFollow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.signup(t, "Alice", "Liddell", "alice@example.com")
	bob := ts.signup(t, "Bob", "Builder", "bob@example.com")

	type followBody struct {
		Message   string `json:"message"`
		Following bool   `json:"following"`
	}
	type meBody struct {
		User meResponse `json:"user"`
	}
	type profileBody struct {
		User profileResponse `json:"user"`
	}

	followPath := fmt.Sprintf("/api/auth/follow/%d", bob.User.ID)

	var followed followBody
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, followPath, alice.Token, nil, &followed))
	assert.True(t, followed.Following)
	assert.Equal(t, "Followed successfully", followed.Message)

	var aliceMe, bobMe meBody
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/auth/me", alice.Token, nil, &aliceMe))
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/auth/me", bob.Token, nil, &bobMe))
	assert.Equal(t, int64(1), aliceMe.User.Following)
	assert.Equal(t, int64(0), aliceMe.User.Followers)
	assert.Equal(t, int64(1), bobMe.User.Followers)
	assert.Equal(t, "alice@example.com", aliceMe.User.Email)

	var profile profileBody
	profilePath := fmt.Sprintf("/api/users/%d", bob.User.ID)
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, profilePath, alice.Token, nil, &profile))
	assert.True(t, profile.User.IsFollowing)
	assert.Equal(t, int64(1), profile.User.Followers)

	profile = profileBody{}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, profilePath, "", nil, &profile))
	assert.False(t, profile.User.IsFollowing)

	var unfollowed followBody
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPut, followPath, alice.Token, nil, &unfollowed))
	assert.False(t, unfollowed.Following)
	assert.Equal(t, "Unfollowed successfully", unfollowed.Message)

	bobMe = meBody{}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/auth/me", bob.Token, nil, &bobMe))
	assert.Equal(t, int64(0), bobMe.User.Followers)

	t.Run("Self follow", func(t *testing.T) {
		var res errorBody
		path := fmt.Sprintf("/api/auth/follow/%d", alice.User.ID)
		assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPut, path, alice.Token, nil, &res))
		assert.Equal(t, "You cannot follow yourself", res.Error)
	})

	t.Run("Unknown user", func(t *testing.T) {
		var res errorBody
		assert.Equal(t, http.StatusNotFound, ts.call(t, http.MethodPut, "/api/auth/follow/9999", alice.Token, nil, &res))
		assert.Equal(t, models.CodeNotFound, res.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		var res errorBody
		assert.Equal(t, http.StatusBadRequest, ts.call(t, http.MethodPut, "/api/auth/follow/abc", alice.Token, nil, &res))
		assert.Equal(t, "Invalid user ID", res.Error)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	ts := newTestServer(t)
	user := ts.signup(t, "Grace", "Hopper", "grace@example.com")

	require.Equal(t, http.StatusOK, ts.call(t, http.MethodGet, "/api/auth/me", user.Token, nil, nil))

	var res struct {
		Message string `json:"message"`
	}
	require.Equal(t, http.StatusOK, ts.call(t, http.MethodPost, "/api/auth/logout", user.Token, nil, &res))
	assert.Equal(t, "Logged out successfully", res.Message)

	var denied errorBody
	assert.Equal(t, http.StatusUnauthorized, ts.call(t, http.MethodGet, "/api/auth/me", user.Token, nil, &denied))
	assert.Equal(t, models.CodeUnauthorized, denied.Code)
}
