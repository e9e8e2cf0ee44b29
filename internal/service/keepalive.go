package service

import (
	"context"
	"log"
	"sync"
	"time"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/store"
	"atoma-accounts-client/internal/transport"
)

// KeepAliveScheduler keeps a session alive without user interaction by
// re-deriving a fresh access token shortly before expiry, and restores a
// persisted session on cold start when it is still eligible.
//
// At most one refresh timer is outstanding at any time: re-arming always
// cancels the previous timer, so a single refresh chain exists per process.
type KeepAliveScheduler struct {
	factory  *transport.Factory
	records  *store.Records
	session  *SessionService
	accounts *AccountService

	now         func() time.Time
	settleDelay time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	stopped   bool
	stopOnce  sync.Once
	startOnce sync.Once
}

// NewKeepAliveScheduler creates the refresh scheduler.
func NewKeepAliveScheduler(factory *transport.Factory, records *store.Records, session *SessionService, accounts *AccountService) *KeepAliveScheduler {
	return &KeepAliveScheduler{
		factory:     factory,
		records:     records,
		session:     session,
		accounts:    accounts,
		now:         time.Now,
		settleDelay: 500 * time.Millisecond,
	}
}

// Refresh calls the refresh endpoint once with the given refresh token.
func (s *KeepAliveScheduler) Refresh(ctx context.Context, refreshToken string) (*model.AuthData, error) {
	client := s.factory.AuthAPI(transport.Bearer(refreshToken))

	var auth model.AuthData
	if err := client.Get(ctx, "queue/refresh", &auth); err != nil {
		return nil, err
	}

	return &auth, nil
}

// Restore re-establishes a session from a persisted refresh token: one
// refresh call, then persist the new credentials and fetch the profile. On
// any failure the persisted session is cleared entirely; a corrupt or
// expired session is never left half-alive. Returns the refreshed
// credentials on full success, nil otherwise.
func (s *KeepAliveScheduler) Restore(ctx context.Context, refreshToken string) *model.AuthData {
	auth, err := s.Refresh(ctx, refreshToken)

	if s.isStopped() || ctx.Err() != nil {
		return nil
	}

	if err != nil || !auth.Valid() {
		s.records.ClearAuth(ctx)
		return nil
	}

	if err := persistAuth(ctx, s.records, s.now(), auth); err != nil {
		log.Printf("[KeepAliveScheduler] Failed to persist session: %v", err)
	}

	account, err := s.accounts.GetUser(ctx, auth.Sub, auth.AccessToken)

	if s.isStopped() || ctx.Err() != nil {
		return nil
	}

	if err != nil {
		s.records.ClearAuth(ctx)
		return nil
	}

	s.session.SetAccount(account)
	return auth
}

// Start runs the cold-start session decision. It executes at most once per
// scheduler: restore an eligible persisted session, arm the refresh chain
// for an already-live one, or clear an expired record. The session loading
// flag is cleared exactly once at the end, whichever branch runs.
func (s *KeepAliveScheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.start(ctx)
	})
}

func (s *KeepAliveScheduler) start(ctx context.Context) {
	defer s.session.SetLoading(false)

	auth := s.records.LoadAuth(ctx)
	if auth == nil || auth.RefreshToken == "" {
		return
	}

	switch {
	case s.session.Authorized():
		// In-memory session already live (hot restart): arm the chain.
		s.schedule(auth.RefreshToken, refreshDelay(auth.ExpiresIn))

	case auth.RefreshAt > 0 && s.now().UnixMilli() <= auth.RefreshAt:
		if restored := s.Restore(ctx, auth.RefreshToken); restored != nil {
			s.schedule(restored.RefreshToken, refreshDelay(restored.ExpiresIn))
		}
		// Let downstream state settle before loading completes.
		s.sleep(ctx, s.settleDelay)

	default:
		s.records.ClearAuth(ctx)
	}
}

// keepAlive is the timer continuation: refresh once, then either re-arm with
// the new refresh token or force a sign-out. The continuation re-checks both
// the scheduler and the session before every effect: a sign-out that raced
// the timer must not re-persist the credentials it just cleared.
func (s *KeepAliveScheduler) keepAlive(refreshToken string) {
	if s.isStopped() || !s.session.Authorized() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	auth, err := s.Refresh(ctx, refreshToken)

	if s.isStopped() || !s.session.Authorized() {
		return
	}

	if err != nil || !auth.Valid() || auth.RefreshToken == "" {
		s.session.SignOut(ctx, SignOutOptions{Message: "Session expired"})
		return
	}

	s.session.UpdateAccessToken(auth.AccessToken)

	if err := persistAuth(ctx, s.records, s.now(), auth); err != nil {
		log.Printf("[KeepAliveScheduler] Failed to persist session: %v", err)
	}

	s.schedule(auth.RefreshToken, refreshDelay(auth.ExpiresIn))
}

// schedule arms the one-shot refresh timer, cancelling any previous one.
func (s *KeepAliveScheduler) schedule(refreshToken string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(delay, func() {
		s.keepAlive(refreshToken)
	})
}

// Stop tears the scheduler down: the pending timer is cancelled and any
// in-flight continuation mutates nothing once it resolves.
func (s *KeepAliveScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.stopped = true
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
	})
}

func (s *KeepAliveScheduler) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *KeepAliveScheduler) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// refreshDelay converts a token lifetime into the keep-alive timer delay.
func refreshDelay(expiresIn int) time.Duration {
	return time.Duration(model.ExpiryToMillis(expiresIn)) * time.Millisecond
}
