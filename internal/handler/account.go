package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/pkg/apierror"
	"atoma-accounts-client/pkg/response"
)

// AccountHandler exposes profile and store operations for the signed-in
// session over the local API.
type AccountHandler struct {
	session  *service.SessionService
	accounts *service.AccountService
	redeem   *service.RedeemService
}

// NewAccountHandler creates the account operations handler.
func NewAccountHandler(session *service.SessionService, accounts *service.AccountService, redeem *service.RedeemService) *AccountHandler {
	return &AccountHandler{
		session:  session,
		accounts: accounts,
		redeem:   redeem,
	}
}

// apiStatus maps a remote-call error to a response status. Errors without an
// HTTP status (network failure, cancelled context) report as a bad gateway.
func apiStatus(err error) int {
	if code := apierror.StatusCode(err); code != 0 {
		return code
	}
	return http.StatusBadGateway
}

// identity returns the signed-in identity, writing a 401 when there is none.
func (h *AccountHandler) identity(w http.ResponseWriter) (sub, accessToken string, ok bool) {
	account := h.session.Account()
	if !account.Authorized() {
		response.Error(w, http.StatusUnauthorized, "not signed in")
		return "", "", false
	}
	return account.Sub, account.AccessToken, true
}

// PutName handles PUT /api/account/name.
func (h *AccountHandler) PutName(w http.ResponseWriter, r *http.Request) {
	sub, accessToken, ok := h.identity(w)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		response.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	result, err := h.accounts.PutAccountName(r.Context(), sub, accessToken, body.Name)
	if err != nil {
		response.Error(w, apiStatus(err), "failed to change account name")
		return
	}

	h.session.UpdateAccountName(result.AccountName)
	response.OK(w, result)
}

// Register handles POST /api/account/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	sub, accessToken, ok := h.identity(w)
	if !ok {
		return
	}

	var body struct {
		Email       string                     `json:"email"`
		Preferences model.MarketingPreferences `json:"marketingPreferences"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid registration payload")
		return
	}

	account, err := h.accounts.Register(r.Context(), sub, accessToken, service.RegistrationData{
		Email:       body.Email,
		Preferences: body.Preferences,
	})
	if err != nil {
		response.Error(w, apiStatus(err), "failed to register account")
		return
	}

	h.session.SetAccount(account)
	response.OK(w, map[string]bool{"registered": h.session.Registered()})
}

// DeleteEmail handles DELETE /api/account/email.
func (h *AccountHandler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	sub, accessToken, ok := h.identity(w)
	if !ok {
		return
	}

	if err := h.accounts.DeleteEmail(r.Context(), sub, accessToken); err != nil {
		response.Error(w, apiStatus(err), "failed to remove email")
		return
	}

	response.OK(w, nil)
}

// Redeem handles POST /api/redemptions/{keyID}.
func (h *AccountHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	sub, accessToken, ok := h.identity(w)
	if !ok {
		return
	}

	keyID := chi.URLParam(r, "keyID")

	result, err := h.redeem.Redeem(r.Context(), sub, accessToken, keyID)
	if err != nil {
		response.Error(w, apiStatus(err), "failed to redeem code")
		return
	}

	if result.Processing {
		response.JSON(w, http.StatusAccepted, map[string]interface{}{"processing": true})
		return
	}

	response.OK(w, result.Data)
}

// CharacterExport handles POST /api/characters/{characterID}/export.
func (h *AccountHandler) CharacterExport(w http.ResponseWriter, r *http.Request) {
	sub, accessToken, ok := h.identity(w)
	if !ok {
		return
	}

	characterID := chi.URLParam(r, "characterID")

	result, err := h.accounts.PostCharacterExport(r.Context(), sub, accessToken, characterID)
	if err != nil {
		response.Error(w, apiStatus(err), "failed to export character")
		return
	}

	response.OK(w, result)
}
