// Package server exposes the REST surface: health, OU creation and member
// account creation. Handlers are thin adapters over the orgs service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/awsorg/internal/orgs"
)

// OrgService is the surface of the orgs service the API depends on.
type OrgService interface {
	CreateOU(ctx context.Context, name string) (*orgs.OU, error)
	CreateMemberAccount(ctx context.Context, in orgs.CreateAccountInput) (*orgs.CreateAccountResult, error)
}

// Server handles the REST API.
type Server struct {
	svc OrgService
}

// New creates a Server over the given service.
func New(svc OrgService) *Server {
	return &Server{svc: svc}
}

// Handler returns the route table. Middleware is layered on by the caller.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /create-ou", s.handleCreateOU)
	mux.HandleFunc("POST /create-account", s.handleCreateAccount)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createOURequest struct {
	OUName string `json:"ou_name"`
}

func (s *Server) handleCreateOU(w http.ResponseWriter, r *http.Request) {
	var req createOURequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OUName == "" {
		writeError(w, http.StatusBadRequest, "ou_name is required")
		return
	}

	ou, err := s.svc.CreateOU(r.Context(), req.OUName)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("ou_name", req.OUName).Msg("create-ou failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, ou)
}

type createAccountRequest struct {
	AccountName  string `json:"account_name"`
	AccountEmail string `json:"account_email"`
	OU           string `json:"ou"`
	RoleName     string `json:"role_name"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.AccountName == "" || req.AccountEmail == "" || req.OU == "" {
		writeError(w, http.StatusBadRequest, "account_name, account_email and ou are required")
		return
	}

	// This blocks for the full account-creation poll, up to the configured
	// poll timeout. The server's write timeout must sit above that budget.
	res, err := s.svc.CreateMemberAccount(r.Context(), orgs.CreateAccountInput{
		Name:     req.AccountName,
		Email:    req.AccountEmail,
		OU:       req.OU,
		RoleName: req.RoleName,
	})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("account_name", req.AccountName).Msg("create-account failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty body decodes to the zero value, field checks handle it.
			return nil
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
