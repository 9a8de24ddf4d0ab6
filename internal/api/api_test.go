package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vlasovdm/referral-gift-bot/internal/config"
	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
	"github.com/vlasovdm/referral-gift-bot/internal/lib/jwt"
)

// ========================================================
// Fake stats provider
// ========================================================

type fakeStats struct {
	stats *models.Stats
}

func (fs *fakeStats) Stats(ctx context.Context) (*models.Stats, error) {
	return fs.stats, nil
}

func newTestServer(t *testing.T) (*APIServer, []byte) {
	t.Helper()

	passHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	cfg := &config.Config{
		Api: config.Api{
			Host:          "localhost",
			Port:          8080,
			AdminUser:     "admin",
			AdminPassHash: string(passHash),
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtSecret := []byte("secret")
	stats := &fakeStats{stats: &models.Stats{
		Users:        5,
		Verified:     3,
		CoinsPaidOut: 10,
		Withdraws:    4,
		Pending:      1,
		Approved:     2,
		Declined:     1,
	}}

	return New(cfg, logger, stats, jwtSecret), jwtSecret
}

func TestAuthIssuesToken(t *testing.T) {
	apiServer, jwtSecret := newTestServer(t)

	body, err := json.Marshal(map[string]string{
		"username": "admin",
		"password": "password",
	})
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler := http.HandlerFunc(apiServer.authHandler())
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp AuthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected non-empty token")
	}

	claims, err := jwt.ParseToken(resp.Token, string(jwtSecret))
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims["username"] != "admin" {
		t.Errorf("expected username 'admin', got %v", claims["username"])
	}
}

func TestAuthRejectsWrongPassword(t *testing.T) {
	apiServer, _ := newTestServer(t)

	body, err := json.Marshal(map[string]string{
		"username": "admin",
		"password": "wrongpassword",
	})
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/auth", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler := http.HandlerFunc(apiServer.authHandler())
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rr.Code)
	}
}

func TestStatsRequiresToken(t *testing.T) {
	apiServer, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	rr := httptest.NewRecorder()

	handler := http.HandlerFunc(apiServer.authenticate(apiServer.statsHandler()))
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rr.Code)
	}
}

func TestStatsHandler(t *testing.T) {
	apiServer, jwtSecret := newTestServer(t)

	token, err := jwt.NewToken("admin", string(jwtSecret), time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler := http.HandlerFunc(apiServer.authenticate(apiServer.statsHandler()))
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp models.Stats
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode stats response: %v", err)
	}
	if resp.Users != 5 || resp.Verified != 3 {
		t.Errorf("unexpected stats: %+v", resp)
	}
	if resp.CoinsPaidOut != 10 || resp.Pending != 1 || resp.Approved != 2 || resp.Declined != 1 {
		t.Errorf("unexpected withdraw stats: %+v", resp)
	}
}
