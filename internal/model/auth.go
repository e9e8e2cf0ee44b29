package model

import "time"

// RefreshLeeway is subtracted from the server-reported token lifetime when
// computing refresh deadlines, so a new access token is minted well before
// the old one expires.
const RefreshLeeway = 300 * time.Second

// DefaultExpiresIn is assumed when the server omits ExpiresIn.
const DefaultExpiresIn = 1800

// AuthData is the result of a successful sign-in or refresh, as returned by
// the auth API and mirrored into the persistent store. Field names match the
// wire format of the queue endpoints.
type AuthData struct {
	Sub          string `json:"Sub,omitempty"`
	AccessToken  string `json:"AccessToken,omitempty"`
	RefreshToken string `json:"RefreshToken,omitempty"`
	ExpiresIn    int    `json:"ExpiresIn,omitempty"`
	AccountName  string `json:"AccountName,omitempty"`

	// RefreshAt is a locally computed deadline (Unix milliseconds) after
	// which the persisted session is no longer eligible for silent
	// restoration. It is derived once, when the record is persisted, and
	// never recomputed from the same ExpiresIn value.
	RefreshAt int64 `json:"RefreshAt,omitempty"`
}

// Valid reports whether the data carries the minimum fields required to
// establish a session.
func (a *AuthData) Valid() bool {
	return a != nil && a.Sub != "" && a.AccessToken != ""
}

// ExpiryToMillis returns the keep-alive delay for a token lifetime of
// expiresIn seconds, never negative.
func ExpiryToMillis(expiresIn int) int64 {
	if expiresIn == 0 {
		expiresIn = DefaultExpiresIn
	}

	millis := int64(expiresIn)*1000 - RefreshLeeway.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	return millis
}

// ExpiryToTimestamp returns the absolute RefreshAt deadline in Unix
// milliseconds for a token issued now with a lifetime of expiresIn seconds.
func ExpiryToTimestamp(now time.Time, expiresIn int) int64 {
	return now.UnixMilli() + ExpiryToMillis(expiresIn)
}
