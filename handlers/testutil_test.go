package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"socialfeed/auth"
	"socialfeed/handlers"
	"socialfeed/models"
	"socialfeed/routes"
	"socialfeed/store"
	"socialfeed/uploads"
)

// In-memory store fakes so handler tests run without a MongoDB instance.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) delete(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type postEntry struct {
	post models.Post
	seq  int
}

type fakePostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]postEntry
	seq   int
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[primitive.ObjectID]postEntry)}
}

func (s *fakePostStore) Insert(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	s.seq++
	s.posts[post.ID] = postEntry{post: *post, seq: s.seq}
	return nil
}

func (s *fakePostStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	post := entry.post
	post.Likes = append([]primitive.ObjectID(nil), entry.post.Likes...)
	return &post, nil
}

func (s *fakePostStore) List(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]postEntry, 0, len(s.posts))
	for _, entry := range s.posts {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].post.CreatedAt.Equal(entries[j].post.CreatedAt) {
			return entries[i].post.CreatedAt.After(entries[j].post.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
	posts := make([]models.Post, len(entries))
	for i, entry := range entries {
		posts[i] = entry.post
	}
	return posts, nil
}

func (s *fakePostStore) Replace(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.posts[post.ID]
	if !ok {
		return store.ErrNotFound
	}
	entry.post = *post
	s.posts[post.ID] = entry
	return nil
}

func (s *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

type commentEntry struct {
	comment models.Comment
	seq     int
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]commentEntry
	seq      int
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[primitive.ObjectID]commentEntry)}
}

func (s *fakeCommentStore) Insert(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	s.seq++
	s.comments[comment.ID] = commentEntry{comment: *comment, seq: s.seq}
	return nil
}

func (s *fakeCommentStore) ListByPost(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]commentEntry, 0)
	for _, entry := range s.comments {
		if entry.comment.PostID == postID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].comment.CreatedAt.Equal(entries[j].comment.CreatedAt) {
			return entries[i].comment.CreatedAt.After(entries[j].comment.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})
	comments := make([]models.Comment, len(entries))
	for i, entry := range entries {
		comments[i] = entry.comment
	}
	return comments, nil
}

func (s *fakeCommentStore) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.comments {
		if entry.comment.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}

type testEnv struct {
	router    *gin.Engine
	users     *fakeUserStore
	posts     *fakePostStore
	comments  *fakeCommentStore
	tokens    *auth.TokenService
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	uploadDir := t.TempDir()
	images, err := uploads.NewImageStore(uploadDir)
	require.NoError(t, err)

	users := newFakeUserStore()
	posts := newFakePostStore()
	comments := newFakeCommentStore()

	router := routes.SetupRouter(routes.Deps{
		Auth:      &handlers.AuthHandler{Users: users, Tokens: tokens},
		Posts:     &handlers.PostHandler{Posts: posts, Comments: comments, Images: images},
		Tokens:    tokens,
		Users:     users,
		UploadDir: uploadDir,
	})

	return &testEnv{
		router:    router,
		users:     users,
		posts:     posts,
		comments:  comments,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return e.do(t, method, path, token, bytes.NewReader(body), "application/json")
}

// doForm sends a multipart form the way the client posts and updates
// posts. imageName/imageData are optional.
func (e *testEnv) doForm(t *testing.T, method, path, token, text, imageName string, imageData []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if text != "" {
		require.NoError(t, writer.WriteField("text", text))
	}
	if imageName != "" {
		part, err := writer.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return e.do(t, method, path, token, &body, writer.FormDataContentType())
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

// signup registers a user and returns their token and id.
func (e *testEnv) signup(t *testing.T, username, email, password string) (token, userID string) {
	t.Helper()
	rec := e.doJSON(t, "POST", "/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup failed: %s", rec.Body.String())

	body := decodeBody(t, rec)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	userID, _ = user["id"].(string)
	require.NotEmpty(t, userID)
	return token, userID
}

// createPost posts text-only content and returns the created post id.
func (e *testEnv) createPost(t *testing.T, token, text string) string {
	t.Helper()
	rec := e.doForm(t, "POST", "/posts", token, text, "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, "create post failed: %s", rec.Body.String())
	body := decodeBody(t, rec)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func postPath(id, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/posts/%s", id)
	}
	return fmt.Sprintf("/posts/%s/%s", id, suffix)
}
