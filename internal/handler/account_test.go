package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"atoma-accounts-client/internal/config"
	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/internal/store"
	"atoma-accounts-client/internal/transport"
)

type accountEnv struct {
	records *store.Records
	session *service.SessionService
	linking *service.LinkingService
	account *AccountHandler
	links   *LinkingHandler
}

func newAccountEnv(titleURL, storeURL string) *accountEnv {
	factory := transport.NewFactory(&config.APIConfig{
		TitleURL: titleURL,
		StoreURL: storeURL,
		Timeout:  5 * time.Second,
	})

	records := store.NewRecords(store.NewMemoryStore())
	session := service.NewSessionService(records, notify.NewCaptureNotifier(), nil)
	accounts := service.NewAccountService(factory)
	redeem := service.NewRedeemService(factory)
	linking := service.NewLinkingService(factory, records)

	return &accountEnv{
		records: records,
		session: session,
		linking: linking,
		account: NewAccountHandler(session, accounts, redeem),
		links:   NewLinkingHandler(session, linking),
	}
}

func signedInAccount() *model.AccountData {
	return &model.AccountData{
		Sub:           "u1",
		AccessToken:   "a1",
		Username:      "player",
		Name:          "Player",
		Discriminator: "0420",
		AccountName:   "Player#0420",
	}
}

// withURLParams injects chi route parameters without a full router.
func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAccountEndpointsRequireSession(t *testing.T) {
	env := newAccountEnv("http://127.0.0.1:0", "http://127.0.0.1:0")

	tests := []struct {
		name    string
		handler http.HandlerFunc
		request *http.Request
	}{
		{
			name:    "put name",
			handler: env.account.PutName,
			request: httptest.NewRequest(http.MethodPut, "/api/account/name", strings.NewReader(`{"name":"x"}`)),
		},
		{
			name:    "register",
			handler: env.account.Register,
			request: httptest.NewRequest(http.MethodPost, "/api/account/register", strings.NewReader(`{}`)),
		},
		{
			name:    "redeem",
			handler: env.account.Redeem,
			request: httptest.NewRequest(http.MethodPost, "/api/redemptions/k1", nil),
		},
		{
			name:    "unlink",
			handler: env.links.Unlink,
			request: httptest.NewRequest(http.MethodDelete, "/api/linking/steam/765", nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, tt.request)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestAccountPutName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/data/u1/account/name/NewName" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		w.Write([]byte(`{"accountName":"NewName#0420"}`))
	}))
	defer srv.Close()

	env := newAccountEnv(srv.URL, "")
	env.session.SetAccount(signedInAccount())

	req := httptest.NewRequest(http.MethodPut, "/api/account/name", strings.NewReader(`{"name":"NewName"}`))
	rec := httptest.NewRecorder()

	env.account.PutName(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if got := env.session.Account().AccountName; got != "NewName#0420" {
		t.Fatalf("in-memory account name = %q, want NewName#0420", got)
	}
}

func TestAccountPutNameRequiresName(t *testing.T) {
	env := newAccountEnv("http://127.0.0.1:0", "")
	env.session.SetAccount(signedInAccount())

	req := httptest.NewRequest(http.MethodPut, "/api/account/name", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	env.account.PutName(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAccountRegister(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/web/u1/summary" {
			w.Write([]byte(`{"username":"player","name":"Player","discriminator":"0420","marketingPreferences":{"termsAgreed":true}}`))
		}
	}))
	defer srv.Close()

	env := newAccountEnv(srv.URL, "")
	env.session.SetAccount(signedInAccount())

	body := `{"email":"a@b.c","marketingPreferences":{"termsAgreed":true}}`
	req := httptest.NewRequest(http.MethodPost, "/api/account/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.account.Register(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if !env.session.Registered() {
		t.Fatalf("session not registered after registration")
	}
}

func TestAccountRedeemProcessing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/golden-keys/u1/redemptions/key-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	env := newAccountEnv("", srv.URL)
	env.session.SetAccount(signedInAccount())

	req := withURLParams(
		httptest.NewRequest(http.MethodPost, "/api/redemptions/key-1", nil),
		map[string]string{"keyID": "key-1"},
	)
	rec := httptest.NewRecorder()

	env.account.Redeem(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
}

func TestAccountRedeemConflictPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	env := newAccountEnv("", srv.URL)
	env.session.SetAccount(signedInAccount())

	req := withURLParams(
		httptest.NewRequest(http.MethodPost, "/api/redemptions/key-1", nil),
		map[string]string{"keyID": "key-1"},
	)
	rec := httptest.NewRecorder()

	env.account.Redeem(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestAccountCharacterExport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/u1/characters/c9/createexport" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"export-token"}`))
	}))
	defer srv.Close()

	env := newAccountEnv(srv.URL, "")
	env.session.SetAccount(signedInAccount())

	req := withURLParams(
		httptest.NewRequest(http.MethodPost, "/api/characters/c9/export", nil),
		map[string]string{"characterID": "c9"},
	)
	rec := httptest.NewRecorder()

	env.account.CharacterExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "export-token") {
		t.Fatalf("body = %s, want export token", rec.Body.String())
	}
}

func TestLinkingStartStashesPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/linking/start" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"LinkingToken":"lt-1"}`))
	}))
	defer srv.Close()

	env := newAccountEnv(srv.URL, "")

	req := httptest.NewRequest(http.MethodGet, "/api/linking/start?token=device-token&platform=steam", nil)
	rec := httptest.NewRecorder()

	env.links.Start(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	pending := env.linking.LoadPending(context.Background())
	if pending == nil || pending.LinkingToken != "lt-1" || pending.Platform != "steam" {
		t.Fatalf("pending = %+v, want stashed linking token", pending)
	}
}

func TestLinkingStartRequiresParams(t *testing.T) {
	env := newAccountEnv("http://127.0.0.1:0", "")

	req := httptest.NewRequest(http.MethodGet, "/api/linking/start?token=device-token", nil)
	rec := httptest.NewRecorder()

	env.links.Start(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUnlink(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	env := newAccountEnv(srv.URL, "")
	env.session.SetAccount(signedInAccount())

	req := withURLParams(
		httptest.NewRequest(http.MethodDelete, "/api/linking/steam/765", nil),
		map[string]string{"platform": "steam", "platformID": "765"},
	)
	rec := httptest.NewRecorder()

	env.links.Unlink(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotMethod != http.MethodDelete || gotPath != "/linking/accounts/u1/steam/765" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
}
