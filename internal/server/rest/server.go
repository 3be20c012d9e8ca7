// Package rest is the JSON HTTP API: routing, the request authenticator,
// request validation and the translation of errors into responses.
package rest

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/bannakon/zentasks/internal/logging"
	"github.com/gorilla/handlers"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

// NewHTTPServer wraps handler with access logging into l.
func NewHTTPServer(a string, l logging.Logger, handler http.Handler) *HTTPServer {
	logger := l.With("module", "http_server")
	return &HTTPServer{
		address: a,
		handler: handlers.CustomLoggingHandler(io.Discard, handler, accessLogFormatter(logger)),
		logger:  logger,
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func accessLogFormatter(l logging.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		l.Info(p.Request.Context(), "request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"size", p.Size,
			"duration", time.Since(p.TimeStamp).String(),
		)
	}
}
