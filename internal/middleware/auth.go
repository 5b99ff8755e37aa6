package middleware

import (
	"log"
	"net/http"
	"strings"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware resolves identities from bearer tokens and enforces the
// permission matrix. The codec, store, and matrix are fixed at construction
// and read-only afterwards.
type AuthMiddleware struct {
	codec  *auth.TokenCodec
	users  repository.UserRepository
	matrix auth.Matrix
}

func NewAuthMiddleware(codec *auth.TokenCodec, users repository.UserRepository, matrix auth.Matrix) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users, matrix: matrix}
}

// Identity returns the user bound to the request by Authenticate, if any.
func Identity(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// bearerToken extracts the token from the Authorization header. Any shape
// other than "Bearer <token>" is rejected.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// resolve verifies an access token and loads the matching active user.
func (m *AuthMiddleware) resolve(c *gin.Context) (*model.User, error) {
	tokenString, ok := bearerToken(c)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	subject, err := m.codec.VerifyPurpose(tokenString, auth.PurposeAccess)
	if err != nil {
		// Expired vs malformed only matters for the log line; the client
		// response is identical.
		log.Printf("token rejected: %v", err)
		return nil, auth.ErrUnauthenticated
	}

	user, err := m.users.GetByID(c.Request.Context(), subject.String())
	if err != nil {
		return nil, auth.ErrUnauthenticated
	}
	if user.Status != model.UserStatusActive {
		return nil, auth.ErrUnauthenticated
	}

	return user, nil
}

// Authenticate requires a valid bearer token for an active user and binds the
// resolved identity to the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.resolve(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// OptionalAuthenticate binds an identity when a valid token is present and
// silently continues anonymously otherwise. It never fails the request.
func (m *AuthMiddleware) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := m.resolve(c); err == nil {
			c.Set(identityKey, user)
		}
		c.Next()
	}
}

// RequireRole allows the request only if the bound identity holds one of the
// given roles. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
			return
		}

		for _, role := range allowedRoles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
	}
}

// RequirePermission allows the request only if the identity's role grants
// action on resource in the permission matrix. Must run after Authenticate.
func (m *AuthMiddleware) RequirePermission(resource auth.Resource, action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
			return
		}

		if !m.matrix.Allows(user.Role, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: cannot "+string(action)+" "+string(resource)))
			return
		}

		c.Next()
	}
}

// RequireOwnerOrAdmin allows the request only for the owner of the targeted
// resource instance or an admin. extractor pulls the owner id from the
// request (usually a path param). Must run after Authenticate.
func (m *AuthMiddleware) RequireOwnerOrAdmin(extractor func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
			return
		}

		if !auth.OwnerOrAdmin(user, extractor(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: not the resource owner"))
			return
		}

		c.Next()
	}
}
