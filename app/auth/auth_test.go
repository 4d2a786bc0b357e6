package auth

import (
	"avekl/folio-api/internal"
	"avekl/folio-api/internal/model"
	"avekl/folio-api/internal/service"
	"avekl/folio-api/internal/store"
	"avekl/folio-api/pkg/security"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// 8-byte PNG signature, enough for content sniffing
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type fakeUploader struct {
	urls map[string]string
}

func (f *fakeUploader) Do(r io.Reader, contentType, userID string) (string, error) {
	url := "https://cdn.test/avatars/" + userID
	f.urls[userID] = url
	return url, nil
}

type fakeSender struct {
	codes map[string]string
}

func (f *fakeSender) SendVerificationCode(sendTo, code string) error {
	f.codes[sendTo] = code
	return nil
}

type testEnv struct {
	router *gin.Engine
	deps   *internal.Deps
	sender *fakeSender
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	viper.Set("upload.max_size", int64(5<<20))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.Post{}))

	issuer, err := security.NewTokenIssuer("test-secret")
	require.NoError(t, err)

	sender := &fakeSender{codes: map[string]string{}}

	d := &internal.Deps{
		DB:       db,
		Tokens:   issuer,
		Refresh:  store.NewRefreshStore(rdb),
		Visitors: store.NewVisitorCounter(rdb),
		Verif:    service.NewVerification(store.NewVerificationCache(rdb), sender),
		Avatars:  &fakeUploader{urls: map[string]string{}},
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("requestID", "test")
		c.Next()
	})

	router.POST("/api/auth/register", func(c *gin.Context) { Register(c, d) })
	router.POST("/api/auth/login", func(c *gin.Context) { Login(c, d) })
	router.POST("/api/auth/logout", func(c *gin.Context) { Logout(c, d) })
	router.POST("/api/auth/refresh", func(c *gin.Context) { Refresh(c, d) })
	router.POST("/api/auth/verify/request", func(c *gin.Context) { VerifyRequest(c, d) })
	router.POST("/api/auth/verify/confirm", func(c *gin.Context) { VerifyConfirm(c, d) })

	return &testEnv{router: router, deps: d, sender: sender, redis: mr}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	return e.do(t, http.MethodPost, path, bytes.NewReader(b), "application/json")
}

// register submits a fully valid multipart registration for email.
func (e *testEnv) register(t *testing.T, email, password, name string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	require.NoError(t, mw.WriteField("email", email))
	require.NoError(t, mw.WriteField("password", password))
	require.NoError(t, mw.WriteField("name", name))

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="avatar.png"`)
	h.Set("Content-Type", "image/png")

	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return e.do(t, http.MethodPost, "/api/auth/register", &buf, mw.FormDataContentType())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
