package model

// LinkingData is the transient state of a cross-device linking flow,
// persisted between the redirect out to the provider and the callback.
type LinkingData struct {
	LinkingToken string `json:"linkingToken"`
	Platform     string `json:"platform"`
}

// LinkingStartResponse is returned by the linking-start endpoint. Depending
// on the device token it carries either a linking token to attach to an
// existing account or full session credentials.
type LinkingStartResponse struct {
	Sub          string `json:"Sub,omitempty"`
	AccessToken  string `json:"AccessToken,omitempty"`
	ExpiresIn    int    `json:"ExpiresIn,omitempty"`
	AccountName  string `json:"AccountName,omitempty"`
	LinkingToken string `json:"LinkingToken,omitempty"`
}
