package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type testServer struct {
	*Server
	app   *fiber.App
	db    *gorm.DB
	store *storage.LocalStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:             "test",
		Port:            "0",
		JWTSecret:       testSecret,
		TokenTTLHours:   1,
		UploadDir:       dir,
		UploadMaxSizeMB: 1,
		AllowedOrigins:  "*",
	}
	s, err := NewServerWithDeps(cfg, db, nil, store)
	require.NoError(t, err)

	return &testServer{Server: s, app: s.App(), db: db, store: store}
}

// call sends a JSON request and decodes the JSON response into out when out is non-nil.
func (ts *testServer) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.send(t, req, token, out)
}

func (ts *testServer) send(t *testing.T, req *http.Request, token string, out any) int {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type authBody struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (ts *testServer) signup(t *testing.T, first, last, email string) authBody {
	t.Helper()
	var res authBody
	status := ts.call(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"firstName": first,
		"lastName":  last,
		"email":     email,
		"password":  "password123",
	}, &res)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, res.Token)
	return res
}

// createTextPost creates a text-only post and returns its id.
func (ts *testServer) createTextPost(t *testing.T, token, text string) uint {
	t.Helper()
	var res struct {
		Post postResponse `json:"post"`
	}
	status := ts.call(t, http.MethodPost, "/api/posts", token, map[string]any{"text": text}, &res)
	require.Equal(t, http.StatusCreated, status)
	return res.Post.ID
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// multipartPost builds a create-post request with the given fields and an optional image.
func multipartPost(t *testing.T, fields map[string]string, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
