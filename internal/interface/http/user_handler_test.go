package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/go-user-api/internal/application"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, statusFor(&userapp.Error{Kind: userapp.KindAuthorization, Msg: "no"}))
	for _, k := range []userapp.Kind{userapp.KindValidation, userapp.KindIdentity, userapp.KindNotFound, userapp.KindPersistence} {
		assert.Equal(t, http.StatusInternalServerError, statusFor(&userapp.Error{Kind: k, Msg: "x"}), k.String())
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("plain")))
}

func TestDetailsMessage(t *testing.T) {
	got := detailsMessage(map[string]string{"password": "is required", "email": "must be a valid email"})
	assert.Equal(t, "email must be a valid email; password is required", got)
	assert.Empty(t, detailsMessage(nil))
}

func TestBindPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctxFor := func(body string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c
	}

	t.Run("empty body", func(t *testing.T) {
		var req userRequest
		require.NoError(t, bindPayload(ctxFor(""), &req))
		assert.Equal(t, userRequest{}, req)
	})

	t.Run("partial body", func(t *testing.T) {
		var req userRequest
		require.NoError(t, bindPayload(ctxFor(`{"phone":"+1234567"}`), &req))
		assert.Equal(t, "+1234567", req.Phone)
		assert.Empty(t, req.Email)
	})

	t.Run("malformed body", func(t *testing.T) {
		var req userRequest
		assert.Error(t, bindPayload(ctxFor(`{"phone":`), &req))
	})
}
