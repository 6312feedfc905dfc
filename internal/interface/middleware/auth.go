package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/domain/repository"
	"github.com/oksasatya/go-user-api/pkg/helpers"
	"github.com/oksasatya/go-user-api/pkg/response"
)

const CtxCurrentUserKey = "currentUser"

// IdentityResolver maps a token subject to the stored account.
type IdentityResolver interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Authenticate requires a valid "Authorization: Bearer <jwt>" header.
// Missing or invalid tokens abort with 401. A valid token whose account is gone
// or disabled still passes, with a nil current user, so handlers decide.
func Authenticate(jwt *helpers.JWTManager, resolver IdentityResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		u, err := resolver.FindByID(c.Request.Context(), claims.UserID)
		switch {
		case err != nil:
			if !errors.Is(err, repository.ErrNotFound) && logger != nil {
				logger.WithError(err).WithField("user_id", claims.UserID).Warn("identity lookup failed")
			}
			u = nil
		case u != nil && !u.Enabled:
			u = nil
		}

		c.Set(CtxCurrentUserKey, u)
		c.Next()
	}
}

// CurrentUser returns the account resolved by Authenticate, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxCurrentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
