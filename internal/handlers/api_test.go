// api_test.go exercises the full HTTP surface against the in-memory
// store: routing, middleware chains, status mapping, and envelopes.
package handlers_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"blogapi/internal/content"
	"blogapi/internal/handlers"
	"blogapi/internal/identity"
	"blogapi/internal/interaction"
	"blogapi/internal/models"
	"blogapi/internal/router"
	"blogapi/internal/store/memory"
)

// memTokenStore is a map-backed token store for HTTP tests.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]identity.TokenData
}

func (s *memTokenStore) Issue(_ context.Context, data *identity.TokenData) (string, error) {
	b := make([]byte, 16)
	rand.Read(b)
	token := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	data.CreatedAt = time.Now()
	s.tokens[token] = *data
	return token, nil
}

func (s *memTokenStore) Get(_ context.Context, token string) (*identity.TokenData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := data
	return &cp, nil
}

func (s *memTokenStore) Update(_ context.Context, token string, data *identity.TokenData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = *data
	return nil
}

func (s *memTokenStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// apiEnv is a fully wired API over the in-memory store.
type apiEnv struct {
	handler http.Handler
	mem     *memory.Store
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	mem := memory.New()

	identitySvc := identity.NewService(mem.Users(), &memTokenStore{tokens: make(map[string]identity.TokenData)})
	contentSvc := content.NewService(mem.Categories(), mem.Posts(), mem.Comments(), nil)
	interactionSvc := interaction.NewService(mem.Posts(), mem.Likes(), nil)

	r := router.New(
		identitySvc,
		handlers.NewAuth(identitySvc),
		handlers.NewCategories(contentSvc),
		handlers.NewPosts(contentSvc, interactionSvc, nil),
		handlers.NewComments(contentSvc),
	)
	return &apiEnv{handler: r, mem: mem}
}

// do performs a request with an optional bearer token and JSON body.
func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// registerAndLogin creates an account through the API and returns a token.
func (e *apiEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@test.local",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

// adminToken seeds an admin account directly and logs in through the API.
func (e *apiEnv) adminToken(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = e.mem.Users().Create(context.Background(), &models.User{
		Username:     "admin",
		Email:        "admin@test.local",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	decode(t, rec, &body)
	return body.Token
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	// Anonymous creation is rejected.
	rec := env.do(t, http.MethodPost, "/api/v1/posts", "", map[string]any{
		"title": "Nope", "content": "x",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated creation works and allocates the slug.
	rec = env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Hello, World!", "content": "first", "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Post
	decode(t, rec, &created)
	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, "alice", created.AuthorName)

	// A second post with the same title gets the next slug.
	rec = env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Hello, World!", "content": "second",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var second models.Post
	decode(t, rec, &second)
	assert.Equal(t, "hello-world-1", second.Slug)

	// Reads are public and count views.
	rec = env.do(t, http.MethodGet, "/api/v1/posts/hello-world", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Post
	decode(t, rec, &got)
	assert.Equal(t, 1, got.ViewCount)
	assert.False(t, got.IsLiked)

	// Unknown slug is a 404 with the error envelope.
	rec = env.do(t, http.MethodGet, "/api/v1/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envlp struct {
		Error struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decode(t, rec, &envlp)
	assert.Equal(t, "not_found", envlp.Error.Kind)

	// Update by a stranger is forbidden.
	intruder := env.registerAndLogin(t, "mallory")
	rec = env.do(t, http.MethodPut, "/api/v1/posts/hello-world", intruder, map[string]any{
		"content": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Update by the owner sticks, slug untouched.
	rec = env.do(t, http.MethodPut, "/api/v1/posts/hello-world", token, map[string]any{
		"title": "Hello Again",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Post
	decode(t, rec, &updated)
	assert.Equal(t, "Hello Again", updated.Title)
	assert.Equal(t, "hello-world", updated.Slug)

	// Delete by the owner.
	rec = env.do(t, http.MethodDelete, "/api/v1/posts/hello-world", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/posts/hello-world", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDropsServerOwnedFields(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Stable", "content": "x", "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Post
	decode(t, rec, &created)

	// A patch echoing author and slug back, as after a GET, succeeds;
	// both stay server-owned.
	rec = env.do(t, http.MethodPut, "/api/v1/posts/stable", token, map[string]any{
		"title":  "Renamed",
		"author": "someone-else",
		"slug":   "hijacked-slug",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Post
	decode(t, rec, &updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "stable", updated.Slug)
	assert.Equal(t, "alice", updated.AuthorName)
	assert.Equal(t, created.AuthorID, updated.AuthorID)

	// The old slug still resolves; the smuggled one never existed.
	rec = env.do(t, http.MethodGet, "/api/v1/posts/stable", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/posts/hijacked-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostListEnvelope(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	for _, title := range []string{"One", "Two", "Three"} {
		rec := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
			"title": title, "content": "x", "published": true,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/posts?per_page=2&page=1&published=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items   []models.Post `json:"items"`
		Total   int           `json:"total"`
		Page    int           `json:"page"`
		PerPage int           `json:"per_page"`
	}
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Total)
	assert.Len(t, body.Items, 2)
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 2, body.PerPage)

	// Bad ordering key is a 400.
	rec = env.do(t, http.MethodGet, "/api/v1/posts?ordering=email", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentsOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Open Thread", "content": "x", "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Anonymous comments are welcome.
	rec = env.do(t, http.MethodPost, "/api/v1/posts/open-thread/comments", "", map[string]string{
		"body": "first!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var anon models.Comment
	decode(t, rec, &anon)
	assert.Nil(t, anon.AuthorID)

	// Authenticated comments carry the author.
	rec = env.do(t, http.MethodPost, "/api/v1/posts/open-thread/comments", token, map[string]string{
		"body": "thanks for reading",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var authored models.Comment
	decode(t, rec, &authored)
	require.NotNil(t, authored.AuthorID)
	assert.Equal(t, "alice", authored.AuthorName)

	// Listing pages newest first.
	rec = env.do(t, http.MethodGet, "/api/v1/posts/open-thread/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Items []models.Comment `json:"items"`
		Total int              `json:"total"`
	}
	decode(t, rec, &listing)
	assert.Equal(t, 2, listing.Total)

	// Empty bodies are rejected.
	rec = env.do(t, http.MethodPost, "/api/v1/posts/open-thread/comments", "", map[string]string{
		"body": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Anonymous deletion is rejected; the author may delete their own.
	rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+authored.ID.String(), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+authored.ID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLikeToggleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Likeable", "content": "x", "published": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Likes require authentication.
	rec = env.do(t, http.MethodPost, "/api/v1/posts/likeable/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/posts/likeable/like", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Liked      bool `json:"liked"`
		LikesCount int  `json:"likes_count"`
	}
	decode(t, rec, &result)
	assert.True(t, result.Liked)
	assert.Equal(t, 1, result.LikesCount)

	// Toggling back restores the count.
	rec = env.do(t, http.MethodPost, "/api/v1/posts/likeable/like", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	assert.False(t, result.Liked)
	assert.Equal(t, 0, result.LikesCount)
}

func TestCategoryAdminGateOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	author := env.registerAndLogin(t, "alice")
	admin := env.adminToken(t)

	// Regular authors cannot manage categories.
	rec := env.do(t, http.MethodPost, "/api/v1/categories", author, map[string]string{
		"name": "Forbidden Fruit",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can.
	rec = env.do(t, http.MethodPost, "/api/v1/categories", admin, map[string]string{
		"name": "Deep Dives",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var cat models.Category
	decode(t, rec, &cat)
	assert.Equal(t, "deep-dives", cat.Slug)

	// Duplicate names are a 409.
	rec = env.do(t, http.MethodPost, "/api/v1/categories", admin, map[string]string{
		"name": "Deep Dives",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Public reads list the category with its post count.
	rec = env.do(t, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []models.Category
	decode(t, rec, &cats)
	require.Len(t, cats, 1)
	assert.Equal(t, 0, cats[0].PostCount)

	rec = env.do(t, http.MethodDelete, "/api/v1/categories/deep-dives", admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestImageUploadWithoutStorage(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/v1/posts", token, map[string]any{
		"title": "Pictureless", "content": "x",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/posts/pictureless/image", token, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "storage unconfigured")
}

func TestInvalidJSONBody(t *testing.T) {
	env := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
