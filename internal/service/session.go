package service

import (
	"context"
	"sync"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/store"
)

// SessionService owns the single authoritative account session. The account
// record is only ever replaced whole through SetAccount/SignOut, so the
// authorized invariant (identity fields all present) cannot be broken by
// partial writes.
type SessionService struct {
	records  *store.Records
	notifier notify.Notifier

	// navigate is invoked for SignOut route requests. Optional.
	navigate func(route string)

	mu      sync.Mutex
	account *model.AccountData
	loading bool
}

// SignOutOptions controls the side effects of a sign-out.
type SignOutOptions struct {
	// Route to navigate to after clearing state. Optional.
	Route string
	// Message dispatched as an error notification. Optional.
	Message string
}

// NewSessionService creates the session state machine. navigate may be nil.
func NewSessionService(records *store.Records, notifier notify.Notifier, navigate func(route string)) *SessionService {
	return &SessionService{
		records:  records,
		notifier: notifier,
		navigate: navigate,
		loading:  true,
	}
}

// Account returns the current account record, or nil when unauthenticated.
func (s *SessionService) Account() *model.AccountData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// SetAccount replaces the account record in a single update.
func (s *SessionService) SetAccount(account *model.AccountData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
}

// UpdateAccessToken swaps the access token on the current account, keeping
// the rest of the record intact. No-op when unauthenticated.
func (s *SessionService) UpdateAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil {
		return
	}

	updated := *s.account
	updated.AccessToken = accessToken
	s.account = &updated
}

// UpdateAccountName swaps the public account name on the current account,
// keeping the rest of the record intact. No-op when unauthenticated.
func (s *SessionService) UpdateAccountName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil {
		return
	}

	updated := *s.account
	updated.AccountName = name
	s.account = &updated
}

// Authorized reports whether the current account carries every required
// identity field. Derived, never stored.
func (s *SessionService) Authorized() bool {
	return s.Account().Authorized()
}

// Registered reports whether the current account has agreed to the terms.
func (s *SessionService) Registered() bool {
	return s.Account().Registered()
}

// Loading reports whether the startup session decision is still in flight.
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetLoading updates the loading flag.
func (s *SessionService) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// SignOut clears the persisted session and the in-memory account, then
// optionally notifies and navigates. All side effects complete before it
// returns; there is no partially signed-out state.
func (s *SessionService) SignOut(ctx context.Context, opts SignOutOptions) {
	s.records.ClearAuth(ctx)
	s.SetAccount(nil)

	if opts.Message != "" {
		s.notifier.Dispatch(notify.Message{
			Severity: notify.SeverityError,
			Content:  opts.Message,
		})
	}

	if opts.Route != "" && s.navigate != nil {
		s.navigate(opts.Route)
	}
}
