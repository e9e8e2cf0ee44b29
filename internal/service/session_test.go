package service

import (
	"context"
	"testing"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/store"
)

func TestSignOutClearsEverything(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(store.NewMemoryStore())
	notifier := notify.NewCaptureNotifier()

	var gotRoute string
	session := NewSessionService(records, notifier, func(route string) {
		gotRoute = route
	})

	if err := records.SaveAuth(ctx, &model.AuthData{Sub: "u1", AccessToken: "a1", RefreshToken: "r1"}); err != nil {
		t.Fatalf("SaveAuth returned error: %v", err)
	}
	session.SetAccount(authorizedAccount())

	session.SignOut(ctx, SignOutOptions{Route: "/", Message: "Session expired"})

	if session.Account() != nil {
		t.Fatalf("account survived sign-out")
	}
	if got := records.LoadAuth(ctx); got != nil {
		t.Fatalf("persisted session survived sign-out: %+v", got)
	}

	messages := notifier.Messages()
	if len(messages) != 1 || messages[0].Content != "Session expired" || messages[0].Severity != notify.SeverityError {
		t.Fatalf("notifications = %+v, want single error 'Session expired'", messages)
	}
	if gotRoute != "/" {
		t.Fatalf("navigate route = %q, want /", gotRoute)
	}
}

func TestSignOutWithoutOptions(t *testing.T) {
	ctx := context.Background()
	notifier := notify.NewCaptureNotifier()
	session := NewSessionService(store.NewRecords(store.NewMemoryStore()), notifier, nil)

	session.SetAccount(authorizedAccount())
	session.SignOut(ctx, SignOutOptions{})

	if session.Account() != nil {
		t.Fatalf("account survived sign-out")
	}
	if got := notifier.Messages(); len(got) != 0 {
		t.Fatalf("sign-out without message dispatched %+v", got)
	}
}

func TestUpdateAccessToken(t *testing.T) {
	session := NewSessionService(store.NewRecords(store.NewMemoryStore()), notify.NewCaptureNotifier(), nil)

	session.SetAccount(authorizedAccount())
	session.UpdateAccessToken("a2")

	account := session.Account()
	if account.AccessToken != "a2" {
		t.Fatalf("AccessToken = %q, want a2", account.AccessToken)
	}
	if account.Username != "player" || account.Discriminator != "0420" {
		t.Fatalf("identity fields lost on token swap: %+v", account)
	}
}

func TestUpdateAccessTokenWhenUnauthenticated(t *testing.T) {
	session := NewSessionService(store.NewRecords(store.NewMemoryStore()), notify.NewCaptureNotifier(), nil)

	session.UpdateAccessToken("a2")

	if session.Account() != nil {
		t.Fatalf("token update created an account from nothing")
	}
}

func TestSessionDerivedFlags(t *testing.T) {
	session := NewSessionService(store.NewRecords(store.NewMemoryStore()), notify.NewCaptureNotifier(), nil)

	if !session.Loading() {
		t.Fatalf("session should start in loading state")
	}
	if session.Authorized() || session.Registered() {
		t.Fatalf("empty session reports authorized/registered")
	}

	account := authorizedAccount()
	account.MarketingPreferences = &model.MarketingPreferences{TermsAgreed: true}
	session.SetAccount(account)
	session.SetLoading(false)

	if session.Loading() {
		t.Fatalf("loading flag stuck")
	}
	if !session.Authorized() || !session.Registered() {
		t.Fatalf("populated session not authorized/registered")
	}
}
