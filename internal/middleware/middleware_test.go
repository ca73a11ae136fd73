package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin/internal/service"
)

type validatorFunc func(ctx context.Context, token string) (*service.AuthUser, error)

func (f validatorFunc) ValidateToken(ctx context.Context, token string) (*service.AuthUser, error) {
	return f(ctx, token)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(v TokenValidator) *gin.Engine {
	r := gin.New()
	g := r.Group("/admin", AuthMiddleware(v), AdminOnly())
	g.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(UserIDKey)})
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingHeader(t *testing.T) {
	r := newRouter(validatorFunc(func(context.Context, string) (*service.AuthUser, error) {
		t.Fatal("validator should not be called")
		return nil, nil
	}))
	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r := newRouter(validatorFunc(func(context.Context, string) (*service.AuthUser, error) {
		return nil, service.ErrInvalidToken
	}))
	assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer nope").Code)
}

func TestAuthDisabledUser(t *testing.T) {
	r := newRouter(validatorFunc(func(context.Context, string) (*service.AuthUser, error) {
		return nil, service.ErrUserDisabled
	}))
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer tok").Code)
}

func TestAdminOnlyRejectsNonAdmin(t *testing.T) {
	r := newRouter(validatorFunc(func(context.Context, string) (*service.AuthUser, error) {
		return &service.AuthUser{ID: "u1", Permissions: []string{"user"}, Enabled: true}, nil
	}))
	assert.Equal(t, http.StatusForbidden, do(r, "Bearer tok").Code)
}

func TestAdminPassesAndStripsBearer(t *testing.T) {
	var seen string
	r := newRouter(validatorFunc(func(_ context.Context, token string) (*service.AuthUser, error) {
		seen = token
		return &service.AuthUser{ID: "u1", Permissions: []string{"admin"}, Enabled: true}, nil
	}))

	w := do(r, "Bearer  tok-123 ")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok-123", seen)
	assert.JSONEq(t, `{"user":"u1"}`, w.Body.String())
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "/boom", line["path"])
	assert.EqualValues(t, 500, line["status"])
	assert.Equal(t, "http", line["component"])
}
