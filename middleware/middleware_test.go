package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quill/apperr"
	"quill/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newSessionRouter(t *testing.T, sessions *session.Manager) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.GET("/private", RequireSession(sessions, "token", zap.NewNop()), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": id.Hex()})
	})
	return r
}

func decodeError(t *testing.T, body io.Reader) apperr.ErrorResponse {
	t.Helper()
	var resp apperr.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestRequireSession(t *testing.T) {
	sessions, err := session.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	r := newSessionRouter(t, sessions)
	userID := primitive.NewObjectID()

	t.Run("valid cookie", func(t *testing.T) {
		token, err := sessions.Issue(userID.Hex())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.Hex())
	})

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w.Body)
		assert.Equal(t, "unauthenticated", resp.Error)
		assert.Equal(t, "No token, authorization denied", resp.Message)
	})

	t.Run("bearer header is not a session", func(t *testing.T) {
		token, err := sessions.Issue(userID.Hex())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		token, err := sessions.Issue(userID.Hex())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token + "x"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeError(t, w.Body)
		assert.Equal(t, "invalid_token", resp.Error)
		assert.Equal(t, "Token is not valid", resp.Message)
	})

	t.Run("token from another secret", func(t *testing.T) {
		other, err := session.NewManager("other-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(userID.Hex())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid_token", decodeError(t, w.Body).Error)
	})
}

func TestCurrentUserIDWithoutSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentUserID(c)
	assert.False(t, ok)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w.Body)
	assert.Equal(t, "storage_failure", resp.Error)
	assert.NotContains(t, resp.Message, "kaboom")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/2", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, `quill_http_requests_total{method="GET",route="/things/:id",status="204"} 2`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.True(t, strings.Contains(body, "quill_http_request_duration_seconds_bucket"))
}
