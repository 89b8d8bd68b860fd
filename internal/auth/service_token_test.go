package auth

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
)

const testServiceToken = "svc-shared-secret"

func TestServiceTokenMiddlewareAccepts(t *testing.T) {
	app := newGateApp(NewServiceTokenMiddleware(testServiceToken).Handle)

	resp := doGet(t, app, map[string]string{ServiceTokenHeader: testServiceToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(domain.CallerService), body["kind"])
	assert.NotContains(t, body, "user_id")
}

func TestServiceTokenMiddlewareRejects(t *testing.T) {
	app := newGateApp(NewServiceTokenMiddleware(testServiceToken).Handle)

	resp := doGet(t, app, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doGet(t, app, map[string]string{ServiceTokenHeader: "wrong-secret"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServiceTokenMiddlewareRejectsUserJWT(t *testing.T) {
	app := newGateApp(NewServiceTokenMiddleware(testServiceToken).Handle)

	token, _, err := NewTokenManager("test-secret", time.Hour).GenerateToken(testUser())
	require.NoError(t, err)

	resp := doGet(t, app, map[string]string{ServiceTokenHeader: token})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareRejectsServiceToken(t *testing.T) {
	// the user trust path must not accept the shared service secret
	app := newGateApp(NewAuthMiddleware(NewTokenManager("test-secret", time.Hour)).Handle)

	resp := doGet(t, app, map[string]string{"Authorization": "Bearer " + testServiceToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
