package service

import (
	"context"
	"fmt"
	"net/url"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/transport"
)

// AccountService performs profile operations against the title API on behalf
// of an authenticated session.
type AccountService struct {
	factory *transport.Factory
}

// NewAccountService creates a new account service.
func NewAccountService(factory *transport.Factory) *AccountService {
	return &AccountService{factory: factory}
}

// RegistrationData is the input to the registration flow.
type RegistrationData struct {
	Email       string
	Preferences model.MarketingPreferences
}

// AccountNameResult is returned by the account-name endpoint.
type AccountNameResult struct {
	AccountName string `json:"accountName"`
}

// CharacterExportResult is returned by the character-export endpoint.
type CharacterExportResult struct {
	Token string `json:"token"`
}

// GetUser fetches the account summary and overlays the session identity onto
// it. Hypermedia links in the response are dropped.
func (a *AccountService) GetUser(ctx context.Context, sub, accessToken string) (*model.AccountData, error) {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))

	var account model.AccountData
	if err := client.Get(ctx, fmt.Sprintf("web/%s/summary", url.PathEscape(sub)), &account); err != nil {
		return nil, err
	}

	account.Sub = sub
	account.AccessToken = accessToken

	return &account, nil
}

// PutAccountName sets the public account name.
func (a *AccountService) PutAccountName(ctx context.Context, sub, accessToken, name string) (*AccountNameResult, error) {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))

	var result AccountNameResult
	path := fmt.Sprintf("data/%s/account/name/%s", url.PathEscape(sub), url.PathEscape(name))
	if err := client.Put(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PutEmail attaches an email address to the account.
func (a *AccountService) PutEmail(ctx context.Context, sub, accessToken, email string) error {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))

	body := map[string]string{"email": email}
	return client.Put(ctx, fmt.Sprintf("linking/accounts/%s/email", url.PathEscape(sub)), body, nil)
}

// DeleteEmail removes the email address from the account.
func (a *AccountService) DeleteEmail(ctx context.Context, sub, accessToken string) error {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))
	return client.Delete(ctx, fmt.Sprintf("linking/accounts/%s/email", url.PathEscape(sub)), nil)
}

// PostMarketingPreferences stores the marketing opt-in flags.
func (a *AccountService) PostMarketingPreferences(ctx context.Context, sub, accessToken string, prefs model.MarketingPreferences) error {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))
	return client.Post(ctx, fmt.Sprintf("web/%s/marketing", url.PathEscape(sub)), prefs, nil)
}

// Register completes account registration: optional email attach, then
// marketing preferences, then a profile re-fetch. Steps run strictly in
// order and the first failure aborts the rest.
func (a *AccountService) Register(ctx context.Context, sub, accessToken string, data RegistrationData) (*model.AccountData, error) {
	if data.Email != "" {
		if err := a.PutEmail(ctx, sub, accessToken, data.Email); err != nil {
			return nil, err
		}
	}

	if err := a.PostMarketingPreferences(ctx, sub, accessToken, data.Preferences); err != nil {
		return nil, err
	}

	return a.GetUser(ctx, sub, accessToken)
}

// PostCharacterExport requests an export token for one of the account's
// characters.
func (a *AccountService) PostCharacterExport(ctx context.Context, sub, accessToken, characterID string) (*CharacterExportResult, error) {
	client := a.factory.TitleAPI(transport.Bearer(accessToken))

	var result CharacterExportResult
	path := fmt.Sprintf("data/%s/characters/%s/createexport", url.PathEscape(sub), url.PathEscape(characterID))
	if err := client.Post(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
