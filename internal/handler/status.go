package handler

import (
	"net/http"

	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/pkg/response"
)

// StatusHandler reports the current session state.
type StatusHandler struct {
	session *service.SessionService
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(session *service.SessionService) *StatusHandler {
	return &StatusHandler{session: session}
}

// SessionStatus is the response body for GET /api/status.
type SessionStatus struct {
	Loading     bool   `json:"loading"`
	Authorized  bool   `json:"authorized"`
	Registered  bool   `json:"registered"`
	AccountName string `json:"accountName,omitempty"`
}

// Status handles GET /api/status.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := SessionStatus{
		Loading:    h.session.Loading(),
		Authorized: h.session.Authorized(),
		Registered: h.session.Registered(),
	}

	if account := h.session.Account(); account != nil {
		status.AccountName = account.AccountName
	}

	response.OK(w, status)
}
