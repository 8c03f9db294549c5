package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tutor-marketplace-api/internal/auth"
	"tutor-marketplace-api/internal/middleware"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": middleware.UserID(c)})
	})

	tok, _ := auth.MakeToken(17, secret)
	other, _ := auth.MakeToken(17, "other-secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(r, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want == http.StatusOK && rec.Body.String() != `{"uid":17}` {
				t.Errorf("unexpected body %s", rec.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2)
	defer rl.Close()

	r := gin.New()
	r.POST("/sessions", middleware.RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		codes[i] = serve(r, req).Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", codes[2])
	}

	// a different client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	if code := serve(r, req).Code; code != http.StatusOK {
		t.Errorf("other client should pass, got %d", code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS("*"))
	r.GET("/classes", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/classes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := serve(r, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("unexpected allow origin %q", got)
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", middleware.Timeout(10*time.Millisecond), func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		<-c.Request.Context().Done()
		c.Status(http.StatusGatewayTimeout)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected deadline to fire, got %d", rec.Code)
	}
}

func TestLoggerAndRecovery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)

	r := gin.New()
	r.Use(middleware.Logger(log), middleware.Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
	if logs.FilterMessage("request").Len() != 1 {
		t.Error("request not logged")
	}
}
