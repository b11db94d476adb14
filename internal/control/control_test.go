package control

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arung-agamani/denpa-radio/internal/auth"
	"github.com/arung-agamani/denpa-radio/internal/player"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuth(t *testing.T) *auth.Auth {
	t.Helper()
	return auth.New(auth.Config{
		Username:  "dj",
		Password:  "hunter2",
		JWTSecret: "test-secret-at-least-32-bytes-long!",
	})
}

func TestLoginThenVerify(t *testing.T) {
	a := testAuth(t)
	r := gin.New()
	r.POST("/api/auth/login", loginHandler(a))
	r.GET("/api/auth/verify", authRequired(a), verifyHandler)

	body := strings.NewReader(`{"username":"dj","password":"hunter2"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"token"`) {
		t.Fatalf("login response missing token: %s", w.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req2.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body = %s", w2.Code, w2.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := testAuth(t)
	r := gin.New()
	r.POST("/api/auth/login", loginHandler(a))

	body := strings.NewReader(`{"username":"dj","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestVerifyRejectsMissingToken(t *testing.T) {
	a := testAuth(t)
	r := gin.New()
	r.GET("/api/auth/verify", authRequired(a), verifyHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestMediaStateName(t *testing.T) {
	cases := map[player.MediaState]string{
		player.StateError:     "error",
		player.StatePlaying:   "playing",
		player.StateStopped:   "stopped",
		player.StateBuffering: "buffering",
		player.StateOther:     "other",
	}
	for state, want := range cases {
		if got := mediaStateName(state); got != want {
			t.Errorf("mediaStateName(%v) = %q, want %q", state, got, want)
		}
	}
}

func TestUnitName(t *testing.T) {
	if unitName(player.UnitA) != "a" {
		t.Fatalf("unitName(UnitA) != a")
	}
	if unitName(player.UnitB) != "b" {
		t.Fatalf("unitName(UnitB) != b")
	}
}
