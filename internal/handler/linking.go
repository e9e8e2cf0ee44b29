package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/pkg/response"
)

// LinkingHandler exposes the cross-device linking flow over the local API.
type LinkingHandler struct {
	session *service.SessionService
	linking *service.LinkingService
}

// NewLinkingHandler creates the linking operations handler.
func NewLinkingHandler(session *service.SessionService, linking *service.LinkingService) *LinkingHandler {
	return &LinkingHandler{
		session: session,
		linking: linking,
	}
}

// Start handles GET /api/linking/start. The call is unauthenticated; a
// returned linking token is stashed so the next sign-in can attach it.
func (h *LinkingHandler) Start(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	platform := r.URL.Query().Get("platform")
	if token == "" || platform == "" {
		response.Error(w, http.StatusBadRequest, "token and platform are required")
		return
	}

	resp, err := h.linking.Start(r.Context(), token, platform)
	if err != nil {
		response.Error(w, apiStatus(err), "failed to start linking")
		return
	}

	if resp.LinkingToken != "" {
		if err := h.linking.SavePending(r.Context(), &model.LinkingData{
			LinkingToken: resp.LinkingToken,
			Platform:     platform,
		}); err != nil {
			response.Error(w, http.StatusInternalServerError, "failed to save linking state")
			return
		}
	}

	response.OK(w, resp)
}

// Unlink handles DELETE /api/linking/{platform}/{platformID}.
func (h *LinkingHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	account := h.session.Account()
	if !account.Authorized() {
		response.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	platform := chi.URLParam(r, "platform")
	platformID := chi.URLParam(r, "platformID")

	if err := h.linking.Unlink(r.Context(), account.Sub, account.AccessToken, platform, platformID); err != nil {
		response.Error(w, apiStatus(err), "failed to unlink account")
		return
	}

	response.OK(w, nil)
}
