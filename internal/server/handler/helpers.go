package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/alanyoungcy/defidash/internal/domain"
)

// maxBodyBytes caps inbound JSON bodies.
const maxBodyBytes = 1 << 20

// envelope is the shape of every API response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"success":false,"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeSuccess sends a 200 envelope carrying data.
func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// writeError sends a failure envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// writeServiceError maps a service error onto the response status:
// validation problems are 400, a missing credential is 503, upstream
// failures keep the upstream's status and anything else is 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}

	var notConfigured *domain.NotConfiguredError
	if errors.As(err, &notConfigured) {
		logger.WarnContext(ctx, "handler: integration not configured",
			slog.String("integration", notConfigured.Integration),
		)
		writeError(w, http.StatusServiceUnavailable, notConfigured.Error())
		return
	}

	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		logger.WarnContext(ctx, "handler: upstream request failed",
			slog.String("service", upstream.Service),
			slog.Int("upstream_status", upstream.Status),
			slog.String("error", err.Error()),
		)
		status := upstream.Status
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		msg := upstream.Message
		if msg == "" {
			msg = fmt.Sprintf("%s request failed: %s", upstream.Service, http.StatusText(upstream.Status))
		}
		writeError(w, status, msg)
		return
	}

	if errors.Is(err, context.Canceled) {
		logger.DebugContext(ctx, "handler: request cancelled", slog.String("error", err.Error()))
	} else {
		logger.ErrorContext(ctx, "handler: request failed", slog.String("error", err.Error()))
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes the request body into v. An empty body leaves v at its
// zero value so that required-field validation reports what is missing.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// logHandler is a convenience to attach slog fields in handler code.
func logHandler(logger *slog.Logger, handler string) *slog.Logger {
	return logger.With(slog.String("handler", handler))
}
