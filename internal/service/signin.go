package service

import (
	"context"
	"log"
	"time"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/store"
	"atoma-accounts-client/internal/transport"
)

// SignInService runs the queue-gated sign-in protocol. The auth backend
// admits clients through an explicit queue: join yields a ticket, the ticket
// is polled until the backend either grants a session or fails.
type SignInService struct {
	factory  *transport.Factory
	records  *store.Records
	session  *SessionService
	accounts *AccountService
	notifier notify.Notifier

	now func() time.Time
}

// SignInHooks receive the terminal outcomes of a full sign-in flow. None of
// them fire when the caller's context is already cancelled.
type SignInHooks struct {
	// Success fires after the account has been populated.
	Success func()
	// SignInFailed fires after the "Failed to sign in" notification.
	SignInFailed func()
	// ProfileFailed fires when sign-in succeeded but the profile fetch did
	// not; the caller decides how to recover.
	ProfileFailed func(message string)
}

// NewSignInService creates the sign-in protocol runner.
func NewSignInService(factory *transport.Factory, records *store.Records, session *SessionService, accounts *AccountService, notifier notify.Notifier) *SignInService {
	return &SignInService{
		factory:  factory,
		records:  records,
		session:  session,
		accounts: accounts,
		notifier: notifier,
		now:      time.Now,
	}
}

// JoinQueue presents the identity-provider assertion to the queue-join
// endpoint. The response is a queue ticket; join never yields session
// credentials directly.
func (s *SignInService) JoinQueue(ctx context.Context, authorizationHeader string) (*model.QueueResponse, error) {
	client := s.factory.AuthAPI(authorizationHeader)

	var resp model.QueueResponse
	if err := client.Get(ctx, "queue/join", &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// pollQueue polls the queue-check endpoint with the current ticket as bearer
// credential until the backend grants a session, reports an error, or stops
// supplying a ticket/interval. Each wait uses the server's latest
// retrySuggestion; the wait happens before the poll, and ctx is sampled at
// every suspension point.
//
// A nil, nil return means the queue stopped without granting a session;
// callers must treat that as a failed sign-in.
func (s *SignInService) pollQueue(ctx context.Context, queued *model.QueueResponse) (*model.AuthData, error) {
	ticket := queued.QueueTicket
	interval := queued.RetrySuggestion

	var granted *model.AuthData

	for granted == nil && ticket != "" && interval > 0 {
		timer := time.NewTimer(time.Duration(interval) * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		client := s.factory.AuthAPI(transport.Bearer(ticket))

		var resp model.QueueResponse
		if err := client.Get(ctx, "queue/check", &resp); err != nil {
			return nil, err
		}

		if resp.Granted() {
			auth := resp.AuthData
			granted = &auth
		}

		ticket = resp.QueueTicket
		interval = resp.RetrySuggestion
	}

	return granted, nil
}

// SignIn runs the full join-then-poll protocol and returns the granted
// session credentials.
func (s *SignInService) SignIn(ctx context.Context, authorizationHeader string) (*model.AuthData, error) {
	queued, err := s.JoinQueue(ctx, authorizationHeader)
	if err != nil {
		return nil, err
	}

	return s.pollQueue(ctx, queued)
}

// HandleSignIn runs sign-in end to end: queue protocol, session persistence
// and profile fetch. On grant the new credentials are persisted (with a
// freshly computed RefreshAt) before the profile is loaded; failures never
// leave a half-populated account. All effects are suppressed once ctx is
// cancelled.
func (s *SignInService) HandleSignIn(ctx context.Context, authorizationHeader string, hooks SignInHooks) {
	auth, err := s.SignIn(ctx, authorizationHeader)

	if ctx.Err() != nil {
		return
	}

	if err != nil || !auth.Valid() {
		s.notifier.Dispatch(notify.Message{
			Severity: notify.SeverityError,
			Content:  "Failed to sign in",
		})

		if hooks.SignInFailed != nil {
			hooks.SignInFailed()
		}
		return
	}

	if err := persistAuth(ctx, s.records, s.now(), auth); err != nil {
		// The live session works without a durable copy; silent restore
		// just won't be possible after a restart.
		log.Printf("[SignInService] Failed to persist session: %v", err)
	}

	account, err := s.accounts.GetUser(ctx, auth.Sub, auth.AccessToken)

	if ctx.Err() != nil {
		return
	}

	if err != nil {
		if hooks.ProfileFailed != nil {
			hooks.ProfileFailed("Failed to load account data")
		}
		return
	}

	s.session.SetAccount(account)

	if hooks.Success != nil {
		hooks.Success()
	}
}

// persistAuth stamps the record with its restoration deadline and writes it
// to the store. RefreshAt is computed here, at persistence time, and never
// recomputed later from the same ExpiresIn.
func persistAuth(ctx context.Context, records *store.Records, now time.Time, data *model.AuthData) error {
	stamped := *data
	stamped.RefreshAt = model.ExpiryToTimestamp(now, data.ExpiresIn)
	return records.SaveAuth(ctx, &stamped)
}
