package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// newGateApp builds a fiber app that maps DomainError the way the transport
// layer does, so gate outcomes surface as status codes.
func newGateApp(gates ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"success": false,
				"error":   fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
			})
		},
	})

	handlers := append(append([]fiber.Handler{}, gates...), func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		body := fiber.Map{"kind": principal.Kind}
		if principal.Claims != nil {
			body["user_id"] = principal.Claims.UserID
			body["role"] = principal.Claims.Role
		}
		return c.JSON(body)
	})
	app.Get("/protected", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	app := newGateApp(NewAuthMiddleware(NewTokenManager("test-secret", time.Hour)).Handle)

	resp := doGet(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareWrongScheme(t *testing.T) {
	app := newGateApp(NewAuthMiddleware(NewTokenManager("test-secret", time.Hour)).Handle)

	resp := doGet(t, app, map[string]string{"Authorization": "Basic dXNlcjpwYXNz"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	app := newGateApp(NewAuthMiddleware(NewTokenManager("test-secret", time.Hour)).Handle)

	resp := doGet(t, app, map[string]string{"Authorization": "Bearer not.a.token"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenFromOtherSecret(t *testing.T) {
	app := newGateApp(NewAuthMiddleware(NewTokenManager("test-secret", time.Hour)).Handle)

	token, _, err := NewTokenManager("other-secret", time.Hour).GenerateToken(testUser())
	require.NoError(t, err)

	resp := doGet(t, app, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	app := newGateApp(NewAuthMiddleware(tm).Handle)

	token, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	resp := doGet(t, app, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	app := newGateApp(NewAuthMiddleware(tm).Handle, RequireAdmin())

	adminToken, _, err := tm.GenerateToken(&domain.User{ID: "admin-1", Email: "root@x.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	userToken, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	resp := doGet(t, app, map[string]string{"Authorization": "Bearer " + adminToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// a perfectly valid token still fails the role gate without the role
	resp = doGet(t, app, map[string]string{"Authorization": "Bearer " + userToken})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireAdminFailsClosedWithoutAuth(t *testing.T) {
	// role gate invoked without AuthMiddleware in front: no claims means 403,
	// never a panic
	app := newGateApp(RequireAdmin())

	resp := doGet(t, app, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
