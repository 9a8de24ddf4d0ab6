package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vlasovdm/referral-gift-bot/internal/config"
	"github.com/vlasovdm/referral-gift-bot/internal/domain/models"
	"github.com/vlasovdm/referral-gift-bot/internal/lib/jwt"
)

// StatsProvider is the slice of the engine the reporting API needs.
type StatsProvider interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// APIServer exposes the admin reporting surface over HTTP.
type APIServer struct {
	config    *config.Config
	logger    *slog.Logger
	server    *http.Server
	stats     StatsProvider
	jwtSecret []byte
}

func New(cfg *config.Config, logger *slog.Logger, stats StatsProvider, jwtSecret []byte) *APIServer {
	return &APIServer{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr: cfg.Api.Host + ":" + strconv.Itoa(cfg.Api.Port),
		},
		stats:     stats,
		jwtSecret: jwtSecret,
	}
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting admin API", slog.String("addr", s.server.Addr))

	s.configureRouter()

	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start admin API: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Admin API stopped")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) configureRouter() {
	router := mux.NewRouter()
	router.HandleFunc("/api/auth", s.authHandler()).Methods("POST")
	router.HandleFunc("/api/stats", s.authenticate(s.statsHandler())).Methods("GET")
	s.server.Handler = router
}

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func (s *APIServer) authHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
			return
		}

		if req.Username != s.config.Api.AdminUser {
			http.Error(w, "Неверные учетные данные", http.StatusUnauthorized)
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(s.config.Api.AdminPassHash), []byte(req.Password)); err != nil {
			http.Error(w, "Неверные учетные данные", http.StatusUnauthorized)
			return
		}

		token, err := jwt.NewToken(req.Username, string(s.jwtSecret), 24*time.Hour)
		if err != nil {
			s.logger.Error("Failed to issue token", "error", err)
			http.Error(w, "Ошибка авторизации", http.StatusInternalServerError)
			return
		}

		if err := json.NewEncoder(w).Encode(AuthResponse{Token: token}); err != nil {
			return
		}
	}
}

func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			http.Error(w, "Токен отсутствует", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(tokenHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Неверный формат токена", http.StatusUnauthorized)
			return
		}

		if _, err := jwt.ParseToken(parts[1], string(s.jwtSecret)); err != nil {
			http.Error(w, "Неверный токен", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *APIServer) statsHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.stats.Stats(r.Context())
		if err != nil {
			s.logger.Error("Failed to load stats", "error", err)
			http.Error(w, "Ошибка загрузки статистики", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			return
		}
	}
}
