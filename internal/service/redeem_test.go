package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"atoma-accounts-client/pkg/apierror"
)

func TestRedeemSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/store/golden-keys/u1/redemptions/key-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer a1" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"reward":"hat"}`))
	}))
	defer srv.Close()

	redeem := NewRedeemService(newTestFactory("", "", srv.URL))

	result, err := redeem.Redeem(context.Background(), "u1", "a1", "key-1")
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if result.Processing {
		t.Fatalf("200 redemption reported as processing")
	}
	if result.Data["reward"] != "hat" {
		t.Fatalf("Data = %v", result.Data)
	}
}

func TestRedeemAcceptedIsProcessing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	redeem := NewRedeemService(newTestFactory("", "", srv.URL))

	result, err := redeem.Redeem(context.Background(), "u1", "a1", "key-1")
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if !result.Processing {
		t.Fatalf("202 redemption not reported as processing")
	}
}

func TestRedeemConflictSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	redeem := NewRedeemService(newTestFactory("", "", srv.URL))

	_, err := redeem.Redeem(context.Background(), "u1", "a1", "key-1")
	if err == nil {
		t.Fatalf("Redeem succeeded on conflict")
	}
	if got := apierror.StatusCode(err); got != http.StatusConflict {
		t.Fatalf("StatusCode = %d, want 409", got)
	}
}
