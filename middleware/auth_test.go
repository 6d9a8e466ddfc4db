package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddlewareRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := primitive.NewObjectID()
	token, err := GenerateToken(userID, models.RoleAdmin)
	require.NoError(t, err)

	c, _ := newAuthContext(t, "Bearer "+token)

	called := false
	next := func(c echo.Context) error {
		called = true
		assert.Equal(t, userID, c.Get("userID"))
		assert.Equal(t, models.RoleAdmin, c.Get("userRole"))
		return nil
	}

	require.NoError(t, AuthMiddleware(next)(c))
	assert.True(t, called)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, rec := newAuthContext(t, "")
	next := func(c echo.Context) error {
		t.Fatal("next should not run")
		return nil
	}

	require.NoError(t, AuthMiddleware(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	c, rec := newAuthContext(t, "Bearer not-a-token")
	next := func(c echo.Context) error {
		t.Fatal("next should not run")
		return nil
	}

	require.NoError(t, AuthMiddleware(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(primitive.NewObjectID(), models.RoleUser)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	c, rec := newAuthContext(t, "Bearer "+token)

	require.NoError(t, AuthMiddleware(func(c echo.Context) error { return nil })(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminMiddleware(t *testing.T) {
	c, rec := newAuthContext(t, "")
	c.Set("userRole", models.RoleUser)

	require.NoError(t, AdminMiddleware(func(c echo.Context) error { return nil })(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, _ = newAuthContext(t, "")
	c.Set("userRole", models.RoleAdmin)

	called := false
	require.NoError(t, AdminMiddleware(func(c echo.Context) error {
		called = true
		return nil
	})(c))
	assert.True(t, called)
}
