package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"
)

type auditEntryResponse struct {
	EntryID    string         `json:"entry_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	Resource   string         `json:"resource,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	RecordedAt string         `json:"recorded_at"`
}

type auditListResponse struct {
	Items []auditEntryResponse `json:"items"`
}

func (s *Server) registerAuditRoutes() {
	s.mux.HandleFunc("GET /api/audit/v1/logs", s.handleListAuditLogs)
}

func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.audit.Recent.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"code":    "internal_error",
			"message": "internal server error",
		})
		return
	}
	items := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entryResponse(entry))
	}
	writeJSON(w, http.StatusOK, auditListResponse{Items: items})
}

func entryResponse(entry entities.AuditLogEntry) auditEntryResponse {
	return auditEntryResponse{
		EntryID:    entry.EntryID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Detail:     entry.Detail,
		RecordedAt: entry.RecordedAt.UTC().Format(time.RFC3339),
	}
}
