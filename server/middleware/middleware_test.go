package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/recordkit/auth/authctx"
	"github.com/kbukum/recordkit/errors"
	"github.com/kbukum/recordkit/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) errors.ErrorCode {
	t.Helper()
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	engine := gin.New()
	engine.Use(RequestID(), Recovery(logger.NewWithWriter(&buf, zerolog.DebugLevel)))
	engine.GET("/boom", func(*gin.Context) { panic("test panic") })
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, errors.ErrCodeInternal, errorCode(t, rr))
	assert.NotContains(t, rr.Body.String(), "test panic")
	assert.Contains(t, buf.String(), "test panic")
	assert.Contains(t, buf.String(), rr.Header().Get(HeaderRequestID))

	rr = serve(engine, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	generated := rr.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(HeaderRequestID, "custom-id-123")
	rr = serve(engine, req)
	assert.Equal(t, "custom-id-123", rr.Header().Get(HeaderRequestID))
	assert.Equal(t, "custom-id-123", rr.Body.String())
}

func TestCORS(t *testing.T) {
	cfg := &CORSConfig{
		AllowedOrigins:   []string{"https://example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	called := false
	h := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	rr := serve(h, req)
	assert.True(t, called)
	assert.Equal(t, "https://example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, HeaderRequestID, rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Methods"))

	called = false
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/note", http.NoBody)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = serve(h, req)
	assert.False(t, called, "preflight is answered by the middleware")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rr.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "https://evil.com")
	rr = serve(h, req)
	assert.True(t, called)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig_Defaults(t *testing.T) {
	var cfg CORSConfig
	cfg.ApplyDefaults()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.AllowedMethods, http.MethodPut)
	assert.Contains(t, cfg.AllowedHeaders, HeaderRequestID)
	assert.Equal(t, 600, cfg.MaxAge)
}

func TestBodySizeLimit(t *testing.T) {
	h := BodySizeLimit("1KB")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	rr := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 512))))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 2048))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, errors.ErrCodeInvalidInput, errorCode(t, rr))

	// Unknown length: the cap applies while the handler reads.
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 2048)))
	req.ContentLength = -1
	rr = serve(h, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-before")
				next.ServeHTTP(w, r)
				order = append(order, name+"-after")
			})
		}
	}
	h := Chain(mark("m1"), mark("m2"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}))
	serve(h, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(t, []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}, order)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, zerolog.DebugLevel)
	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(log))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/:resource", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Empty(t, buf.String())

	rr := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/widget", http.NoBody))
	out := buf.String()
	assert.Contains(t, out, `"route":"/api/v1/:resource"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, rr.Header().Get(HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	engine := gin.New()
	engine.POST("/token", RateLimit(RateLimitConfig{
		RequestsPerMinute: 2,
		Now:               func() time.Time { return now },
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/token", http.NoBody)
		req.RemoteAddr = ip + ":1234"
		return serve(engine, req)
	}

	assert.Equal(t, http.StatusOK, post("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, post("10.0.0.1").Code)
	rr := post("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, errors.ErrCodeRateLimited, errorCode(t, rr))
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, post("10.0.0.2").Code, "keys are independent")

	now = now.Add(45 * time.Second)
	assert.Equal(t, "15", post("10.0.0.1").Header().Get("Retry-After"))

	now = now.Add(16 * time.Second)
	assert.Equal(t, http.StatusOK, post("10.0.0.1").Code, "next minute starts a fresh window")
}

type stubUser struct{ id uint }

type stubAuthenticator struct {
	users    map[string]*stubUser
	required []string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string, required ...string) (*stubUser, error) {
	s.required = required
	if token == "" {
		return nil, errors.Unauthorized("Not authenticated")
	}
	u, ok := s.users[token]
	if !ok {
		return nil, errors.InvalidToken()
	}
	return u, nil
}

func TestAuth(t *testing.T) {
	stub := &stubAuthenticator{users: map[string]*stubUser{"good": {id: 7}}}
	engine := gin.New()
	engine.Use(Auth(AuthConfig[*stubUser]{
		Authenticator: stub,
		Extract:       func(r *http.Request) string { return r.Header.Get("X-Token") },
		Scopes:        []string{"user"},
		UserID:        func(u *stubUser) uint { return u.id },
	}))
	engine.GET("/me", func(c *gin.Context) {
		user, ok := authctx.User[*stubUser](c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.id})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	req.Header.Set("X-Token", "good")
	rr := serve(engine, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":7}`, rr.Body.String())
	assert.Equal(t, []string{"user"}, stub.required)

	rr = serve(engine, httptest.NewRequest(http.MethodGet, "/me", http.NoBody))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, errors.ErrCodeUnauthorized, errorCode(t, rr))
	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))

	req = httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	req.Header.Set("X-Token", "forged")
	rr = serve(engine, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, errors.ErrCodeInvalidToken, errorCode(t, rr))
}
