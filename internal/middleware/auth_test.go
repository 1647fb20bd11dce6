package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/auth"
)

func setupAuthRouter(t *testing.T, jwtSvc auth.JWTService, required model.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := NewAuthMiddleware(jwtSvc)
	r := gin.New()
	g := r.Group("/", m.Authenticate())
	if required != "" {
		g.Use(m.RequireRole(required))
	}
	g.GET("/whoami", func(c *gin.Context) {
		id, err := CurrentUserID(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "role": c.GetString(ContextUserRole)})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	r := setupAuthRouter(t, jwtSvc, "")

	user := &model.User{ID: uuid.New(), Email: "amina@example.com", Role: model.RolePatient}
	token, _, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, token).Code, "missing Bearer prefix")

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())

	// Second request is served from the validated-token cache.
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)
}

func TestRequireRole(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	r := setupAuthRouter(t, jwtSvc, model.RoleAdmin)

	patientToken, _, err := jwtSvc.GenerateAccessToken(&model.User{ID: uuid.New(), Email: "p@example.com", Role: model.RolePatient})
	require.NoError(t, err)
	adminToken, _, err := jwtSvc.GenerateAccessToken(&model.User{ID: uuid.New(), Email: "a@example.com", Role: model.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "Bearer "+patientToken).Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+adminToken).Code)
}
