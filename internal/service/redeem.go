package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"atoma-accounts-client/internal/transport"
)

// RedeemService redeems access codes against the store API.
type RedeemService struct {
	factory *transport.Factory
}

// NewRedeemService creates a new redeem service.
func NewRedeemService(factory *transport.Factory) *RedeemService {
	return &RedeemService{factory: factory}
}

// RedeemResult is the outcome of a code redemption.
type RedeemResult struct {
	// Processing is set when the backend accepted the code but has not
	// finished applying it (HTTP 202). Callers should report this as
	// in-progress rather than as a conflict.
	Processing bool

	Data map[string]interface{}
}

// Redeem submits a code for the signed-in account. A failed call carries its
// HTTP status (apierror.StatusCode) so callers can tell an already-redeemed
// code from a transient failure.
func (r *RedeemService) Redeem(ctx context.Context, sub, accessToken, keyID string) (*RedeemResult, error) {
	client := r.factory.StoreAPI(transport.Bearer(accessToken))

	path := fmt.Sprintf("store/golden-keys/%s/redemptions/%s", url.PathEscape(sub), url.PathEscape(keyID))

	var data map[string]interface{}
	status, err := client.Do(ctx, http.MethodPost, path, nil, &data)
	if err != nil {
		return nil, err
	}

	return &RedeemResult{
		Processing: status == http.StatusAccepted,
		Data:       data,
	}, nil
}
