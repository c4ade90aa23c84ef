package utilities

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewEventBus()
	var total atomic.Int64
	for i := 0; i < 3; i++ {
		bus.Subscribe(EventTestUsed, func(data interface{}) {
			total.Add(int64(data.(int)))
		})
	}
	bus.Subscribe("other", func(interface{}) { t.Error("unexpected event") })

	bus.Publish(EventTestUsed, 2)
	bus.Publish("nobody-listens", 1)
	bus.Wait()
	assert.EqualValues(t, 6, total.Load())
}

func TestEventBusRecoversPanics(t *testing.T) {
	SetLogOutput(&bytes.Buffer{})
	bus := NewEventBus()
	bus.Subscribe("boom", func(interface{}) { panic("bad handler") })
	bus.Publish("boom", nil)
	bus.Wait()
}

func TestTokens(t *testing.T) {
	ConfigureTokenSecrets("access-test", "refresh-test")

	access, refresh, err := GenerateTokens("instructor")
	require.NoError(t, err)

	claims, err := ValidateToken(access, false)
	require.NoError(t, err)
	assert.Equal(t, "instructor", claims.Username)

	_, err = ValidateToken(access, true)
	assert.Error(t, err, "access token is not a refresh token")
	_, err = ValidateToken(refresh, false)
	assert.Error(t, err, "refresh token is not an access token")

	newAccess, _, err := RefreshTokens(refresh)
	require.NoError(t, err)
	_, err = ValidateToken(newAccess, false)
	assert.NoError(t, err)

	expired, err := generateToken("instructor", false, -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(expired, false)
	assert.EqualError(t, err, "token has expired")
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ConfigureTokenSecrets("access-test", "refresh-test")

	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/api/words", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("username")) })
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	do := func(method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/words", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/words", "garbage").Code)
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "/auth/login", "").Code)

	access, _, err := GenerateTokens("instructor")
	require.NoError(t, err)
	w := do(http.MethodGet, "/api/words", access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "instructor", w.Body.String())
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() { SetLogOutput(&bytes.Buffer{}) })

	Info("hello %d", 1)
	Warn("careful")
	Error("broken: %v", "disk")

	out := buf.String()
	assert.Contains(t, out, "INFO: ")
	assert.Contains(t, out, "hello 1")
	assert.Contains(t, out, "WARNING: ")
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "broken: disk")
	assert.Contains(t, out, "TestLogLevels", "entries carry the calling function")
}

func TestSetupLoggingWritesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SetupLogging(LogOptions{Dir: dir, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}))
	t.Cleanup(func() {
		CloseLogging()
		SetLogOutput(&bytes.Buffer{})
	})

	Warn("rotating warn entry")
	assert.FileExists(t, dir+"/warn.log")
}
