package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	electionservice "voteguard/contexts/election-operations/election-service"
	votingengine "voteguard/contexts/election-operations/voting-engine"
	voterregistry "voteguard/contexts/identity-access/voter-registry"
	audittrail "voteguard/contexts/trust-compliance/audit-trail"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "voteguard/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	elections electionservice.Module
	voters    voterregistry.Module
	voting    votingengine.Module
	audit     audittrail.Module
}

func New(
	elections electionservice.Module,
	voters voterregistry.Module,
	voting votingengine.Module,
	audit audittrail.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		elections: elections,
		voters:    voters,
		voting:    voting,
		audit:     audit,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerElectionRoutes()
	s.registerVoterRoutes()
	s.registerVotingRoutes()
	s.registerAuditRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
