package model

import (
	"testing"
	"time"
)

func TestExpiryToMillis(t *testing.T) {
	tests := []struct {
		name      string
		expiresIn int
		want      int64
	}{
		{
			name:      "standard lifetime",
			expiresIn: 3600,
			want:      3300 * 1000,
		},
		{
			name:      "short lifetime clamps to zero",
			expiresIn: 100,
			want:      0,
		},
		{
			name:      "exactly the leeway",
			expiresIn: 300,
			want:      0,
		},
		{
			name:      "omitted lifetime uses default",
			expiresIn: 0,
			want:      (1800 - 300) * 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpiryToMillis(tt.expiresIn); got != tt.want {
				t.Fatalf("ExpiryToMillis(%d) = %d, want %d", tt.expiresIn, got, tt.want)
			}
		})
	}
}

func TestExpiryToTimestamp(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := ExpiryToTimestamp(now, 3600)
	want := now.UnixMilli() + 3300*1000

	if got != want {
		t.Fatalf("ExpiryToTimestamp = %d, want %d", got, want)
	}
}

func TestAuthDataValid(t *testing.T) {
	tests := []struct {
		name string
		data *AuthData
		want bool
	}{
		{
			name: "nil data",
			data: nil,
			want: false,
		},
		{
			name: "complete",
			data: &AuthData{Sub: "u1", AccessToken: "a"},
			want: true,
		},
		{
			name: "missing access token",
			data: &AuthData{Sub: "u1"},
			want: false,
		},
		{
			name: "missing sub",
			data: &AuthData{AccessToken: "a"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.Valid(); got != tt.want {
				t.Fatalf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueueResponseGranted(t *testing.T) {
	queued := &QueueResponse{QueueTicket: "t1", RetrySuggestion: 1000}
	if queued.Granted() {
		t.Fatalf("queued response should not be granted")
	}

	granted := &QueueResponse{AuthData: AuthData{AccessToken: "a", Sub: "u1"}}
	if !granted.Granted() {
		t.Fatalf("response with credentials should be granted")
	}
}
