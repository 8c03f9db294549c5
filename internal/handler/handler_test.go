package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/auth"
	"tutor-marketplace-api/internal/handler"
	"tutor-marketplace-api/internal/middleware"
	"tutor-marketplace-api/internal/model"
)

const secret = "test-secret"

type env struct {
	router *gin.Engine
	store  *fakeStore
	resets *fakeResets
	mailer *fakeMailer
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newFakeStore()
	resets := &fakeResets{tokens: map[string]int64{}}
	mailer := &fakeMailer{}
	rl := middleware.NewRateLimiter(1000, 1000)
	t.Cleanup(rl.Close)

	h := handler.New(st, resets, mailer, secret, zap.NewNop())
	r := handler.NewRouter(h, handler.RouterConfig{
		CORSOrigin:   "*",
		QueryTimeout: time.Second,
		Limiter:      rl,
	}, zap.NewNop())
	return &env{router: r, store: st, resets: resets, mailer: mailer}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// addUser puts a user straight into the store and returns it with a token.
func (e *env) addUser(t *testing.T, email string, teacher bool) (*model.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("testpass123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &model.User{Name: "Ada", Email: email, PasswordHash: hash, Whatsapp: "5511999999999", IsTeacher: teacher}
	if err := e.store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	tok, err := auth.MakeToken(u.ID, secret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u, tok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	e := setup(t)
	rec := e.do(t, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
