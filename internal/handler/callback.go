package handler

import (
	"net/http"

	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/provider"
	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/pkg/response"
)

// CallbackHandler receives identity-provider redirects on the local callback
// server and routes them to the matching protocol flow. The request context
// doubles as the flow's liveness signal: if the provider connection drops,
// no further session state is touched.
type CallbackHandler struct {
	signIn   *service.SignInService
	session  *service.SessionService
	linking  *service.LinkingService
	notifier notify.Notifier

	// origin is the callback server origin as registered with the
	// providers, used to reconstruct the full redirect URL for assertions.
	origin string
}

// NewCallbackHandler creates the redirect landing handler.
func NewCallbackHandler(signIn *service.SignInService, session *service.SessionService, linking *service.LinkingService, notifier notify.Notifier, origin string) *CallbackHandler {
	return &CallbackHandler{
		signIn:   signIn,
		session:  session,
		linking:  linking,
		notifier: notifier,
		origin:   origin,
	}
}

// Linking handles GET /linking, the redirect target for every provider. The
// action tag embedded in the provider round-trip selects the flow.
func (h *CallbackHandler) Linking(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	action := provider.ParseAction(query)

	var assertion string
	switch action {
	case provider.TagSteamLogin, provider.TagSteamLinking:
		// Steam's assertion is the full callback URL; the auth service
		// re-validates the OpenID response server-side.
		assertion = provider.SteamAssertion(h.origin + r.URL.RequestURI())
	case provider.TagXboxLogin, provider.TagXboxLinking:
		assertion = provider.XboxAssertion(query.Get("code"))
	case provider.TagTwitchLinking:
		assertion = provider.TwitchAssertion(query.Get("code"))
	default:
		h.notifier.Dispatch(notify.Message{
			Severity: notify.SeverityError,
			Content:  "Authentication method not supported",
		})
		response.Error(w, http.StatusBadRequest, "authentication method not supported")
		return
	}

	var signedIn, failed bool

	h.signIn.HandleSignIn(r.Context(), assertion, service.SignInHooks{
		Success: func() {
			h.completeLinking(r)
			signedIn = true
		},
		SignInFailed: func() {
			failed = true
		},
		ProfileFailed: func(message string) {
			h.session.SignOut(r.Context(), service.SignOutOptions{Message: message})
			failed = true
		},
	})

	switch {
	case signedIn:
		response.OK(w, map[string]string{"status": "signed in"})
	case failed:
		response.Error(w, http.StatusUnauthorized, "sign-in failed")
	default:
		// Context cancelled mid-flow; no outcome was delivered.
	}
}

// completeLinking attaches a pending linking token to the freshly signed-in
// account, if one was stashed before the redirect.
func (h *CallbackHandler) completeLinking(r *http.Request) {
	ctx := r.Context()

	pending := h.linking.LoadPending(ctx)
	if pending == nil || pending.LinkingToken == "" {
		return
	}

	account := h.session.Account()
	if account == nil {
		return
	}

	if err := h.linking.LinkAccount(ctx, account.Sub, account.AccessToken, pending.LinkingToken); err != nil {
		h.notifier.Dispatch(notify.Message{
			Severity: notify.SeverityError,
			Content:  "Failed to link account",
		})
		return
	}

	h.linking.ClearPending(ctx)
}
