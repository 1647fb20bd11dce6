package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/auth"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/httputil"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"

	tokenCacheTTL     = time.Minute
	tokenCacheCleanup = 5 * time.Minute
)

type AuthMiddleware struct {
	jwtSvc auth.JWTService
	// Validated-token cache; entries outlive at most a minute so a token
	// nearing expiry is re-verified promptly.
	tokens *gocache.Cache
}

func NewAuthMiddleware(jwtSvc auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSvc: jwtSvc,
		tokens: gocache.New(tokenCacheTTL, tokenCacheCleanup),
	}
}

// Authenticate verifies the bearer token and sets the principal in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthorized(nil))
			c.Abort()
			return
		}

		claims, err := m.validate(parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID.String())
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, string(claims.Role))
		c.Next()
	}
}

func (m *AuthMiddleware) validate(token string) (*model.TokenClaims, error) {
	if cached, ok := m.tokens.Get(token); ok {
		return cached.(*model.TokenClaims), nil
	}

	claims, err := m.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	m.tokens.SetDefault(token, claims)
	return claims, nil
}

// RequireRole rejects requests whose principal does not carry the role.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if model.Role(c.GetString(ContextUserRole)) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": http.StatusForbidden, "message": "insufficient role"},
			})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated principal's ID.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(ContextUserID))
}
