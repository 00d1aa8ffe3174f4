package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(fixtureCardSet(), nil)
	r := SetupRouter(s, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200. Got: %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Undecodable health body: %v", err)
	}
	if body["status"] != "operational" || body["game_active"] != false {
		t.Errorf("Unexpected health body: %v", body)
	}
}

func TestGameEndpoint_RejectsPlainHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(fixtureCardSet(), nil)
	r := SetupRouter(s, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-upgrade request. Got: %d", w.Code)
	}
}

func TestValidUpgradeRequest(t *testing.T) {
	build := func(mutate func(h http.Header)) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/game", nil)
		req.Header.Set("Upgrade", "websocket")
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
		req.Header.Set("Sec-WebSocket-Version", "13")
		if mutate != nil {
			mutate(req.Header)
		}
		return req
	}

	if !validUpgradeRequest(build(nil)) {
		t.Error("Well-formed handshake rejected")
	}
	if validUpgradeRequest(build(func(h http.Header) { h.Set("Upgrade", "h2c") })) {
		t.Error("Wrong Upgrade header accepted")
	}
	if validUpgradeRequest(build(func(h http.Header) { h.Del("Sec-WebSocket-Key") })) {
		t.Error("Missing websocket key accepted")
	}
	if validUpgradeRequest(build(func(h http.Header) { h.Set("Sec-WebSocket-Version", "8") })) {
		t.Error("Wrong websocket version accepted")
	}
	if !validUpgradeRequest(build(func(h http.Header) { h.Set("Connection", "keep-alive, Upgrade") })) {
		t.Error("Connection header with multiple tokens rejected")
	}
}

func TestUpgraderOriginCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/game", nil)
	req.Header.Set("Origin", "https://game.example.com")

	open := newUpgrader("")
	if !open.CheckOrigin(req) {
		t.Error("Empty allowlist must accept any origin")
	}

	restricted := newUpgrader("https://other.example.com, https://game.example.com")
	if !restricted.CheckOrigin(req) {
		t.Error("Listed origin rejected")
	}

	strict := newUpgrader("https://other.example.com")
	if strict.CheckOrigin(req) {
		t.Error("Unlisted origin accepted")
	}
}

func TestRateLimiter_BurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(60, 3)

	for i := 0; i < 3; i++ {
		if ok, _ := rl.allow("10.0.0.1"); !ok {
			t.Fatalf("Request %d within burst rejected", i+1)
		}
	}
	ok, retryAfter := rl.allow("10.0.0.1")
	if ok {
		t.Fatal("Request past the burst must be rejected")
	}
	if retryAfter <= 0 {
		t.Errorf("Expected positive retry hint. Got: %v", retryAfter)
	}

	// Other IPs have their own bucket.
	if ok, _ := rl.allow("10.0.0.2"); !ok {
		t.Error("Fresh IP must be allowed")
	}
}
