package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk/internal/config"
	"helpdesk/internal/jira"
	"helpdesk/internal/repository/userfile"
	"helpdesk/internal/router"
	"helpdesk/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)
	if err := cfg.Validate(); err != nil {
		l.Fatal().Err(err).Msg("invalid config")
	}

	// users + ticketing gateway
	users, err := userfile.Open(cfg.UsersFile)
	if err != nil {
		l.Fatal().Err(err).Msg("users file load failed")
	}
	gw := jira.New(cfg, l)

	// http
	r := router.New(l, gw, users, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second, // attachment uploads pass through here
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
