package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/domain/repository"
	"github.com/oksasatya/go-user-api/pkg/helpers"
)

type fakeResolver map[string]*entity.User

func (f fakeResolver) FindByID(_ context.Context, id string) (*entity.User, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	u, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func init() { gin.SetMode(gin.TestMode) }

func newAuthRouter(jwt *helpers.JWTManager, resolver IdentityResolver) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Authenticate(jwt, resolver, helpers.NewNopLogger()), func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u.ID})
	})
	return r
}

func doGet(r http.Handler, header string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthenticate(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Minute, "test")
	resolver := fakeResolver{
		"u-1":      {ID: "u-1", Enabled: true},
		"disabled": {ID: "disabled", Enabled: false},
	}
	r := newAuthRouter(jwt, resolver)

	token := func(id string) string {
		tok, _, err := jwt.GenerateToken(id)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	t.Run("missing header", func(t *testing.T) {
		w, body := doGet(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "missing bearer token", body["error"])
	})

	t.Run("invalid token", func(t *testing.T) {
		w, body := doGet(r, "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid token", body["error"])
	})

	t.Run("resolved account", func(t *testing.T) {
		w, body := doGet(r, token("u-1"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1", body["user"])
	})

	for _, id := range []string{"gone", "disabled", "broken"} {
		t.Run("unresolved "+id, func(t *testing.T) {
			w, body := doGet(r, token(id))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Nil(t, body["user"])
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		_, err := uuid.Parse(w.Body.String())
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", id)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, id, w.Body.String())
	})
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestKeys(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/user-api/register", nil)
	c.Set("real_ip", "10.0.0.7")

	assert.Equal(t, "rl:ip:10.0.0.7", KeyByIP()(c))
	assert.Equal(t, "rl:path:/user-api/register:ip:10.0.0.7", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:user:anon:ip:10.0.0.7", KeyByUserID()(c))
	assert.True(t, AllowPrivateIP()(c))

	c.Set(CtxCurrentUserKey, &entity.User{ID: "u-1"})
	assert.Equal(t, "rl:user:u-1", KeyByUserID()(c))

	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))
}

func newProxyRouter(t *testing.T, trusted []string) *gin.Engine {
	r := gin.New()
	require.NoError(t, ConfigureProxies(r, trusted))
	r.Use(RealIP())
	r.POST("/user-api/register", func(c *gin.Context) {
		c.Header("X-Allow", strconv.FormatBool(AllowPrivateIP()(c)))
		c.String(http.StatusOK, KeyByIPAndPath()(c))
	})
	return r
}

func postFrom(r http.Handler, remote string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/user-api/register", nil)
	req.RemoteAddr = remote
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRealIP(t *testing.T) {
	t.Run("untrusted peer cannot change its key", func(t *testing.T) {
		r := newProxyRouter(t, nil)
		first := postFrom(r, "203.0.113.9:4000", map[string]string{"X-Forwarded-For": "1.1.1.1"})
		second := postFrom(r, "203.0.113.9:4001", map[string]string{"X-Forwarded-For": "2.2.2.2", "X-Real-IP": "3.3.3.3"})

		assert.Equal(t, "rl:path:/user-api/register:ip:203.0.113.9", first.Body.String())
		assert.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("spoofed private address gets no bypass", func(t *testing.T) {
		r := newProxyRouter(t, nil)
		w := postFrom(r, "203.0.113.9:4000", map[string]string{"X-Forwarded-For": "10.0.0.1", "CF-Connecting-IP": "127.0.0.1"})
		assert.Equal(t, "false", w.Header().Get("X-Allow"))
	})

	t.Run("trusted proxy forwards the client", func(t *testing.T) {
		r := newProxyRouter(t, []string{"10.0.0.0/8"})
		w := postFrom(r, "10.0.0.2:4000", map[string]string{"X-Forwarded-For": "203.0.113.9"})
		assert.Equal(t, "rl:path:/user-api/register:ip:203.0.113.9", w.Body.String())
		assert.Equal(t, "false", w.Header().Get("X-Allow"))
	})

	t.Run("private peer without proxy headers is bypassed", func(t *testing.T) {
		r := newProxyRouter(t, nil)
		w := postFrom(r, "10.0.0.7:4000", nil)
		assert.Equal(t, "true", w.Header().Get("X-Allow"))
	})
}
