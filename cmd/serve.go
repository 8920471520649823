package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/arjun-mehta/portfolio-agent/internal/config"
	"github.com/arjun-mehta/portfolio-agent/internal/engine"
	"github.com/arjun-mehta/portfolio-agent/internal/monitoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx, "")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(cfg.Server, env),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the full route tree. Split out so tests can drive it with
// httptest without binding a port.
func newRouter(server config.ServerConfig, env *appEnv) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{server.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	limiter := rate.NewLimiter(rate.Limit(server.ChatRPS), server.ChatBurst)
	r.With(rateLimit(limiter)).Post("/chat", handleChat(env.Engine))

	r.Get("/agent/health", handleAgentHealth(env))
	r.Get("/agent/analytics", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, env.Analytics.Snapshot())
	})

	// Read-only profile content endpoints.
	r.Get("/about", profileSection(func() any {
		return map[string]string{"about": env.Profile.About}
	}))
	r.Get("/skills", profileSection(func() any { return env.Profile.Skills }))
	r.Get("/projects", profileSection(func() any { return env.Profile.Projects }))
	r.Get("/experience", profileSection(func() any { return env.Profile.Experience }))
	r.Get("/education", profileSection(func() any { return env.Profile.Education }))
	r.Get("/certificates", profileSection(func() any { return env.Profile.Certificates }))
	r.Get("/contact", profileSection(func() any { return env.Profile.Contact }))

	return r
}

func handleChat(eng *engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var q engine.Question
		if err := json.NewDecoder(req.Body).Decode(&q); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(q.Text) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
			return
		}

		resp := eng.Handle(req.Context(), q)
		writeJSON(w, http.StatusOK, resp)
	}
}

// agentHealth is the monitor snapshot extended with the rewrite gate state.
type agentHealth struct {
	monitoring.HealthSnapshot
	GateStatus   string `json:"gate_status"`
	GateFailures int    `json:"gate_consecutive_failures"`
}

func handleAgentHealth(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		failures, _, _ := env.Gate.Counters()
		writeJSON(w, http.StatusOK, agentHealth{
			HealthSnapshot: env.Monitor.Snapshot(),
			GateStatus:     env.Gate.Status().String(),
			GateFailures:   failures,
		})
	}
}

func profileSection(data func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, data())
	}
}

// requestID echoes an incoming X-Request-ID or assigns a fresh UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, req)
	})
}

func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}
