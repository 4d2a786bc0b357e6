package post

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T, userID string) (*gin.Engine, *internal.Deps) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Post{}))

	d := &internal.Deps{DB: db}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})

	router.GET("/api/posts", func(c *gin.Context) { List(c, d) })
	router.GET("/api/posts/:slug", func(c *gin.Context) { Fetch(c, d) })
	router.POST("/api/posts", func(c *gin.Context) { Create(c, d) })
	router.DELETE("/api/posts/:id", func(c *gin.Context) { Delete(c, d) })

	return router, d
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	} else {
		r = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndFetchPost(t *testing.T) {
	router, _ := newTestRouter(t, "author-1")

	w := doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{
		"title": "Hello, World!",
		"body":  "First post.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello-world", created.Slug)

	w = doJSON(t, router, http.MethodGet, "/api/posts/hello-world", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "First post.", fetched.Body)
}

func TestCreatePostDuplicateSlug(t *testing.T) {
	router, _ := newTestRouter(t, "author-1")

	w := doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{"title": "Same Title"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{"title": "Same Title"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreatePostEmptyTitle(t *testing.T) {
	router, _ := newTestRouter(t, "author-1")

	w := doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPostsOmitsBodies(t *testing.T) {
	router, _ := newTestRouter(t, "author-1")

	w := doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{
		"title": "A Post",
		"body":  "long body text",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var posts []model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Empty(t, posts[0].Body)
}

func TestDeletePostOwnership(t *testing.T) {
	router, d := newTestRouter(t, "author-1")

	w := doJSON(t, router, http.MethodPost, "/api/posts", map[string]string{"title": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Someone else can't delete it
	otherRouter := gin.New()
	otherRouter.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Set("userID", "author-2")
		c.Next()
	})
	otherRouter.DELETE("/api/posts/:id", func(c *gin.Context) { Delete(c, d) })

	w = doJSON(t, otherRouter, http.MethodDelete, "/api/posts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner can
	w = doJSON(t, router, http.MethodDelete, "/api/posts/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/posts/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFetchUnknownSlug(t *testing.T) {
	router, _ := newTestRouter(t, "")

	w := doJSON(t, router, http.MethodGet, "/api/posts/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMakeSlug(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":     "hello-world",
		"  spaced   out  ":  "spaced-out",
		"Already-slugged":   "already-slugged",
		"ünïcode dropped 1": "n-code-dropped-1",
	}

	for in, want := range cases {
		if got := makeSlug(in); got != want {
			t.Errorf("makeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
