package service

import (
	"context"
	"fmt"
	"net/url"

	"atoma-accounts-client/internal/model"
	"atoma-accounts-client/internal/store"
	"atoma-accounts-client/internal/transport"
)

// LinkingService drives the cross-device account linking flow. It shares the
// persistence adapter with the session engine but owns its own record key.
type LinkingService struct {
	factory *transport.Factory
	records *store.Records
}

// NewLinkingService creates a new linking service.
func NewLinkingService(factory *transport.Factory, records *store.Records) *LinkingService {
	return &LinkingService{factory: factory, records: records}
}

// Start begins a linking flow for the given device token and platform. The
// call is unauthenticated; a failure surfaces its HTTP status so callers can
// distinguish an invalid token from a transient error.
func (l *LinkingService) Start(ctx context.Context, token, platform string) (*model.LinkingStartResponse, error) {
	client := l.factory.TitleAPI("")

	q := url.Values{}
	q.Set("token", token)
	q.Set("platform", platform)

	var resp model.LinkingStartResponse
	if err := client.Get(ctx, "linking/start?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// LinkAccount attaches a linking token to the signed-in account.
func (l *LinkingService) LinkAccount(ctx context.Context, sub, accessToken, linkingToken string) error {
	client := l.factory.TitleAPI(transport.Bearer(accessToken))

	body := map[string]string{"linkingToken": linkingToken}
	return client.Put(ctx, fmt.Sprintf("linking/accounts/%s", url.PathEscape(sub)), body, nil)
}

// Unlink detaches a platform account from the signed-in account.
func (l *LinkingService) Unlink(ctx context.Context, sub, accessToken, platform, platformID string) error {
	client := l.factory.TitleAPI(transport.Bearer(accessToken))

	path := fmt.Sprintf("linking/accounts/%s/%s/%s",
		url.PathEscape(sub), url.PathEscape(platform), url.PathEscape(platformID))
	return client.Delete(ctx, path, nil)
}

// SavePending persists linking state across the provider redirect.
func (l *LinkingService) SavePending(ctx context.Context, data *model.LinkingData) error {
	return l.records.SaveLinking(ctx, data)
}

// LoadPending returns the persisted linking state, or nil if absent.
func (l *LinkingService) LoadPending(ctx context.Context) *model.LinkingData {
	return l.records.LoadLinking(ctx)
}

// ClearPending removes the persisted linking state. Idempotent.
func (l *LinkingService) ClearPending(ctx context.Context) {
	l.records.ClearLinking(ctx)
}
