package host

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rickgao/danmaku-overlay/internal/connection"
	"github.com/rickgao/danmaku-overlay/internal/version"
)

// maxBodyBytes caps command request bodies.
const maxBodyBytes = 16 * 1024

// ServerOption configures the control handler.
type ServerOption func(*http.ServeMux)

// WithMetrics mounts a metrics handler at path.
func WithMetrics(path string, h http.Handler) ServerOption {
	return func(mux *http.ServeMux) {
		mux.Handle("GET "+path, h)
	}
}

// NewHandler creates the HTTP control API for cmds.
func NewHandler(cmds *Commands, logger *slog.Logger, opts ...ServerOption) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /commands/"+CmdStartServerConnection, func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		id, err := cmds.StartServerConnection(req.URL)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, connection.ErrSupervisorClosed) {
				status = http.StatusServiceUnavailable
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusAccepted, StartResponse{ConnID: id})
	})

	mux.HandleFunc("POST /commands/"+CmdStopServerConnection, func(w http.ResponseWriter, r *http.Request) {
		if err := cmds.StopServerConnection(); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, connection.ErrNoActiveConnection) {
				status = http.StatusConflict
			}
			writeError(w, status, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /commands/"+CmdSetOverlayIgnoreMouse, func(w http.ResponseWriter, r *http.Request) {
		var req IgnoreMouseRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := cmds.SetOverlayIgnoreMouse(req.Ignore); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrOverlayNotFound) {
				status = http.StatusNotFound
			}
			writeError(w, status, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /commands/"+CmdExitApp, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		cmds.ExitApp()
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		st := cmds.Status()

		health := struct {
			Status     string         `json:"status"`
			Version    string         `json:"version"`
			Connection map[string]any `json:"connection"`
		}{
			Status:  "healthy",
			Version: version.String(),
			Connection: map[string]any{
				"active": st.Active,
			},
		}
		if st.Active {
			health.Connection["conn_id"] = st.ConnID
			health.Connection["url"] = st.URL
		}

		writeJSON(w, http.StatusOK, health)
	})

	for _, opt := range opts {
		opt(mux)
	}

	return logRequests(mux, logger)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func logRequests(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("control request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
