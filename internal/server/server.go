// Package server exposes progress queries and the practice session over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/config"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
)

// Server wires handlers to routes.
type Server struct {
	handler        *Handler
	allowedOrigins []string
	logger         *zap.Logger
}

// New builds a Server. The validator checks request bodies.
func New(cat *catalog.Catalog, store *progress.Store, engine *practice.Engine, validate *config.Validator, allowedOrigins []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handler:        NewHandler(cat, store, engine, validate, logger),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Router returns the HTTP handler with CORS applied.
func (s *Server) Router() http.Handler {
	h := s.handler
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/progress", h.GetProgress).Methods("GET")
	api.HandleFunc("/lessons", h.ListLessons).Methods("GET")
	api.HandleFunc("/lessons/{id}/complete", h.CompleteLesson).Methods("POST")
	api.HandleFunc("/flashcards/{id}/review", h.ReviewFlashcard).Methods("POST")
	api.HandleFunc("/settings", h.UpdateSettings).Methods("PATCH")
	api.HandleFunc("/profile", h.UpdateProfile).Methods("PATCH")

	api.HandleFunc("/session", h.GetSession).Methods("GET")
	api.HandleFunc("/session", h.StartSession).Methods("POST")
	api.HandleFunc("/session", h.AbandonSession).Methods("DELETE")
	api.HandleFunc("/session/answer", h.SelectAnswer).Methods("POST")
	api.HandleFunc("/session/flag", h.ToggleFlag).Methods("POST")
	api.HandleFunc("/session/move", h.Move).Methods("POST")
	api.HandleFunc("/session/next", h.Next).Methods("POST")
	api.HandleFunc("/session/end", h.EndTest).Methods("POST")
	api.HandleFunc("/session/revisit", h.Revisit).Methods("POST")
	api.HandleFunc("/session/submit", h.Submit).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// Run serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
