package model

// MarketingPreferences holds the opt-in flags collected during registration.
type MarketingPreferences struct {
	TermsAgreed bool `json:"termsAgreed"`
	NewsLetter  bool `json:"newsLetter,omitempty"`
	Partners    bool `json:"partners,omitempty"`
}

// CharacterData is a single game character attached to the account.
type CharacterData struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Archetype      string `json:"archetype,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Level          int    `json:"level,omitempty"`
}

// AccountData is the derived account profile: the identity fields from
// AuthData plus the profile returned by the title API summary endpoint.
type AccountData struct {
	Sub         string `json:"sub"`
	AccessToken string `json:"accessToken"`

	Username      string `json:"username,omitempty"`
	Name          string `json:"name,omitempty"`
	Discriminator string `json:"discriminator,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
	Email         string `json:"email,omitempty"`

	MarketingPreferences *MarketingPreferences `json:"marketingPreferences,omitempty"`
	Characters           []CharacterData       `json:"characters,omitempty"`
}

// Authorized reports whether the account carries every identity field
// required for an authenticated session.
func (a *AccountData) Authorized() bool {
	return a != nil &&
		a.Sub != "" &&
		a.AccessToken != "" &&
		a.Username != "" &&
		a.Name != "" &&
		a.Discriminator != ""
}

// Registered reports whether the account has completed registration.
func (a *AccountData) Registered() bool {
	return a != nil && a.MarketingPreferences != nil && a.MarketingPreferences.TermsAgreed
}
