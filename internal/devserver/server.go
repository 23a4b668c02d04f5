// Package devserver serves the stand-in assistant endpoint over HTTP for
// local development of the widget.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"dale-assistant/internal/assistant"
	"dale-assistant/internal/domain"
	"dale-assistant/internal/usecase"
)

const maxBodyBytes = 1 << 20

type Asker interface {
	Ask(ctx context.Context, in usecase.AskInput) (usecase.AskOutput, error)
}

type askResponse struct {
	Reply string `json:"reply"`
	LogID int64  `json:"log_id"`
}

// NewRouter mounts the ask endpoint at path, plus /health.
func NewRouter(asker Asker, path string, logger *slog.Logger) (http.Handler, error) {
	if asker == nil {
		return nil, errors.New("devserver: asker must not be nil")
	}
	if path == "" {
		path = assistant.DefaultEndpointPath
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Post(path, askHandler(asker, logger))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method \"" + r.Method + "\" not allowed."})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	return r, nil
}

func askHandler(asker Asker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			"request_id", chiMiddleware.GetReqID(r.Context()),
			"client_request_id", r.Header.Get(assistant.HeaderRequestID),
		)

		var req domain.AssistantRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			log.Warn("invalid request body", "err", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "JSON parse error"})
			return
		}

		start := time.Now()
		out, err := asker.Ask(r.Context(), usecase.AskInput{
			Prompt:      req.Prompt,
			Context:     req.Context,
			History:     req.History,
			PageHeader:  r.Header.Get(assistant.HeaderPageContext),
			BearerToken: usecase.BearerFromHeader(r.Header.Get("Authorization")),
		})
		if err != nil {
			status, detail := errorDetail(err)
			log.Warn("ask failed", "status", status, "err", err)
			writeJSON(w, status, map[string]string{"detail": detail})
			return
		}

		log.Info("ask answered", "log_id", out.LogID, "elapsed", time.Since(start))
		writeJSON(w, http.StatusOK, askResponse{Reply: out.Reply, LogID: out.LogID})
	}
}

func errorDetail(err error) (int, string) {
	var ue *usecase.Error
	if errors.As(err, &ue) {
		if ue.Detail != "" {
			return ue.HTTPStatus(), ue.Detail
		}
		return ue.HTTPStatus(), ue.Reason
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("devserver listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("devserver shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
