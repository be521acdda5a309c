// Package service runs the HTTP server around the wired router.
package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	ghandlers "github.com/gorilla/handlers"
	"github.com/pitabwire/util"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/utils"
)

// ComposeHandler stacks the middleware pipeline around the board router:
// csrf protection on the form routes, then CORS and panic recovery around
// everything. Two routes stay outside the csrf wrap: the installer validates
// its own session tokens, and /generate_token is the endpoint that issues
// tokens in the first place, so it cannot demand one.
func ComposeHandler(settings *config.Settings, router http.Handler, installer http.Handler) http.Handler {
	handler := router

	if !settings.CSRFDisabled {
		csrfSecret := settings.CSRFSecret
		if csrfSecret == "" {
			// No configured secret: protect with an ephemeral one. Tokens
			// then survive only until restart.
			csrfSecret, _ = utils.GenerateToken(32)
		}
		protected := csrf.Protect(
			utils.HashByteSecret([]byte(csrfSecret)),
			csrf.Secure(!settings.AppIsDebug),
			csrf.Path("/"),
		)(router)

		boards := http.NewServeMux()
		boards.Handle("/generate_token", router)
		boards.Handle("/", protected)
		handler = boards
	}

	if installer != nil {
		top := http.NewServeMux()
		top.Handle("/install", installer)
		top.Handle("/install/", installer)
		top.Handle("/", handler)
		handler = top
	}

	corsOpts := []ghandlers.CORSOption{
		ghandlers.AllowedOrigins(settings.CORSOrigins()),
		ghandlers.AllowedMethods(settings.CORSMethods()),
		ghandlers.AllowedHeaders(settings.CORSHeaders()),
	}
	if settings.CORSCredentials() {
		corsOpts = append(corsOpts, ghandlers.AllowCredentials())
	}
	handler = ghandlers.CORS(corsOpts...)(handler)
	handler = ghandlers.RecoveryHandler()(handler)
	handler = requestIDHandler(handler)

	if settings.AppIsDebug {
		handler = ghandlers.CombinedLoggingHandler(os.Stdout, handler)
	}

	return handler
}

// requestIDHandler tags every request with an id, echoed in the response
// header and attached to the request's log fields.
func requestIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		util.Log(r.Context()).
			WithField("request_id", requestID).
			WithField("path", r.URL.Path).
			Debug("request received")
		next.ServeHTTP(w, r)
	})
}

// RunServer starts the server and waits on it until interrupted.
func RunServer(ctx context.Context, settings *config.Settings, handler http.Handler) {
	log := util.Log(ctx)

	waitDuration := time.Second * 15

	srv := &http.Server{
		Addr: fmt.Sprintf("0.0.0.0:%s", settings.ServerPort),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,

		Handler: handler,
	}

	// Run server in a goroutine so that it doesn't block.
	go func() {
		log.WithField("port", settings.ServerPort).Info("service running")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("service stopping due to error")
		}
	}()

	c := make(chan os.Signal, 1)
	// We'll accept graceful shutdowns when quit via SIGINT (Ctrl+C).
	signal.Notify(c, os.Interrupt)

	// Block until we receive our signal.
	<-c

	shutdownCtx, cancel := context.WithTimeout(ctx, waitDuration)
	defer cancel()

	// Doesn't block if no connections, but will otherwise wait until the
	// timeout deadline.
	_ = srv.Shutdown(shutdownCtx)

	log.Info("shutting down")
}
