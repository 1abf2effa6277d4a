package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/flatforum/flatforum-go/internal/config"
	"github.com/flatforum/flatforum-go/internal/handler"
	"github.com/flatforum/flatforum-go/internal/middleware"
	"github.com/flatforum/flatforum-go/internal/router"
	"github.com/flatforum/flatforum-go/internal/service"
	"github.com/flatforum/flatforum-go/internal/store"
)

// Login rate limit per client IP.
const (
	loginRPS   = 5
	loginBurst = 10
)

// newRouter wraps the unified mux in the shared middleware chain. The
// login limiter matches on the trimmed path, so every slash spelling of
// the tokens resource passes through it before reaching the mux.
func newRouter(mux http.Handler, rps float64, burst int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RateLimitPath("tokens", rps, burst))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Handle("/*", mux)
	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	st, err := store.New(cfg.DataDir)
	if err != nil {
		slog.Error("opening data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	users := service.NewUserService(st, cfg.HashSecret)
	auth := service.NewAuthService(st, cfg.HashSecret)
	forums := service.NewForumService(st, auth)

	mux := router.NewMux()
	mux.Handle("ping", handler.Ping)
	mux.Handle("users", handler.NewUserHandler(users, auth).Handle)
	mux.Handle("tokens", handler.NewTokenHandler(auth).Handle)
	mux.Handle("forums", handler.NewForumHandler(forums).Handle)

	r := newRouter(mux, loginRPS, loginBurst)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	go func() {
		slog.Info("http server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	var httpsSrv *http.Server
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		httpsSrv = &http.Server{
			Addr:    ":" + cfg.HTTPSPort,
			Handler: r,
		}
		go func() {
			slog.Info("https server starting", "port", cfg.HTTPSPort, "env", cfg.Env)
			if err := httpsSrv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil && err != http.ErrServerClosed {
				slog.Error("https server error", "error", err)
				os.Exit(1)
			}
		}()
	} else {
		slog.Warn("TLS cert/key not configured, https listener disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("http server forced shutdown", "error", err)
	}
	if httpsSrv != nil {
		if err := httpsSrv.Shutdown(ctx); err != nil {
			slog.Error("https server forced shutdown", "error", err)
		}
	}

	slog.Info("server stopped")
}
