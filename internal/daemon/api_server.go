package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalogpress/internal/api"
	"catalogpress/internal/config"
	"catalogpress/internal/editstore"
	"catalogpress/internal/logging"
	"catalogpress/internal/services"
)

type apiServer struct {
	bind    string
	logger  *slog.Logger
	daemon  *Daemon
	editSvc *api.EditService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:    bind,
		logger:  logger,
		daemon:  d,
		editSvc: api.NewEditService(d.store),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/edits", srv.handleEdits)
	mux.HandleFunc("/api/edits/", srv.handleEditAction)
	mux.HandleFunc("/api/records/", srv.handleRecord)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// addr returns the bound listener address, empty before start.
func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleEdits(w http.ResponseWriter, r *http.Request) {
	identity, err := s.daemon.auth.Authenticate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var statuses []editstore.Status
		for _, value := range r.URL.Query()["status"] {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				continue
			}
			statuses = append(statuses, editstore.Status(trimmed))
		}
		edits, err := s.editSvc.List(r.Context(), statuses...)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.EditListResponse{Edits: edits})
	case http.MethodPost:
		var req api.CreateEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "create", "request body does not parse", err))
			return
		}
		edit, err := s.editSvc.Create(r.Context(), req, identity.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, api.EditResponse{Edit: edit})
	default:
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "edits", "method not allowed", nil))
	}
}

func (s *apiServer) handleEditAction(w http.ResponseWriter, r *http.Request) {
	identity, err := s.daemon.auth.Authenticate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/edits/")
	idStr, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "edits", "invalid edit id", nil))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		edit, err := s.editSvc.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.EditResponse{Edit: edit})
	case action == "approve" && r.Method == http.MethodPost:
		if !identity.Admin {
			s.writeError(w, r, services.Wrap(services.ErrAuth, "api", "approve", "admin role required", nil))
			return
		}
		edit, err := s.editSvc.Approve(r.Context(), id, identity.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.EditResponse{Edit: edit})
	case action == "reject" && r.Method == http.MethodPost:
		if !identity.Admin {
			s.writeError(w, r, services.Wrap(services.ErrAuth, "api", "reject", "admin role required", nil))
			return
		}
		edit, err := s.editSvc.Reject(r.Context(), id, identity.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.EditResponse{Edit: edit})
	case action == "deploy" && r.Method == http.MethodPost:
		result, err := s.daemon.deployer.Deploy(r.Context(), id, identity)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.DeployResponse{
			Revision: result.Revision,
			Message:  result.Message,
			Warning:  result.Warning,
		})
	default:
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "api", "edits", "unknown action", nil))
	}
}

func (s *apiServer) handleRecord(w http.ResponseWriter, r *http.Request) {
	if _, err := s.daemon.auth.Authenticate(r); err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "api", "records", "method not allowed", nil))
		return
	}

	targetID := strings.TrimPrefix(r.URL.Path, "/api/records/")
	if targetID == "" || strings.Contains(targetID, "/") {
		s.writeError(w, r, services.Wrap(services.ErrNotFound, "api", "records", "record not found", nil))
		return
	}

	record, revision, err := s.daemon.inspector.Record(r.Context(), targetID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.RecordResponse{
		TargetID: targetID,
		Revision: revision,
		Record:   record,
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("encode api response", logging.Error(err))
	}
}

// writeError renders the classified failure shape. The full error is logged
// server-side; callers only see the kind and controlled message.
func (s *apiServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	if delay, ok := services.RetryAfter(err); ok && delay > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())))
	}
	if status >= http.StatusInternalServerError {
		s.log().Error("api request failed",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	} else {
		s.log().Debug("api request rejected",
			logging.String("path", r.URL.Path),
			logging.Error(err),
		)
	}
	s.writeJSON(w, status, api.ErrorResponse{
		Kind:  services.Kind(err),
		Error: services.PublicMessage(err),
	})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
