package provider

import (
	"net/url"
)

// Action selects which flow a redirect belongs to. It is embedded in the
// provider round-trip (Steam's assoc_handle, OAuth's state) so the callback
// can route the response without any local state.
type Action string

const (
	ActionLogin   Action = "login"
	ActionLinking Action = "linking"
)

// Platform identifiers as used by the linking endpoints.
const (
	PlatformSteam  = "steam"
	PlatformTwitch = "twitch"
	PlatformXbox   = "xbox"
)

// Action tags carried back through the provider redirect.
const (
	TagSteamLogin    = "steam_login"
	TagXboxLogin     = "xbox_login"
	TagSteamLinking  = "steam_linking"
	TagTwitchLinking = "twitch_linking"
	TagXboxLinking   = "xbox_linking"
)

// Config holds provider client settings.
type Config struct {
	TwitchClientID string
	XboxClientID   string

	// RedirectURL is the callback endpoint registered with the providers.
	RedirectURL string
}

// SteamURL builds the Steam OpenID authorization URL for the given action.
// The action tag rides in the assoc_handle and comes back via
// openid.invalidate_handle on the redirect.
func (c *Config) SteamURL(action Action) string {
	q := url.Values{}
	q.Set("openid.mode", "checkid_setup")
	q.Set("openid.ns", "http://specs.openid.net/auth/2.0")
	q.Set("openid.identity", "http://specs.openid.net/auth/2.0/identifier_select")
	q.Set("openid.claimed_id", "http://specs.openid.net/auth/2.0/identifier_select")
	q.Set("openid.assoc_handle", "steam_"+string(action))
	q.Set("openid.return_to", c.RedirectURL)

	return "https://steamcommunity.com/openid/login?" + q.Encode()
}

// TwitchURL builds the Twitch OAuth authorization URL for the given action.
func (c *Config) TwitchURL(action Action) string {
	q := url.Values{}
	q.Set("client_id", c.TwitchClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("response_type", "code")
	q.Set("state", "twitch_"+string(action))

	return "https://id.twitch.tv/oauth2/authorize?" + q.Encode()
}

// XboxURL builds the Xbox Live OAuth authorization URL for the given action.
func (c *Config) XboxURL(action Action) string {
	q := url.Values{}
	q.Set("client_id", c.XboxClientID)
	q.Set("redirect_uri", c.RedirectURL)
	q.Set("response_type", "code")
	q.Set("state", "xbox_"+string(action))
	q.Set("approval_prompt", "auto")
	q.Set("scope", "Xboxlive.signin Xboxlive.offline_access")

	return "https://login.live.com/oauth20_authorize.srf?" + q.Encode()
}

// ParseAction extracts the routing discriminator from redirect parameters.
// Steam reflects the assoc_handle through openid.invalidate_handle; the
// OAuth providers echo the state parameter.
func ParseAction(q url.Values) string {
	if action := q.Get("openid.invalidate_handle"); action != "" {
		return action
	}
	return q.Get("state")
}

// SteamAssertion builds the Authorization header for a Steam OpenID
// callback. The auth service validates the full callback URL.
func SteamAssertion(callbackURL string) string {
	return "SteamWeb " + callbackURL
}

// XboxAssertion builds the Authorization header for an Xbox OAuth callback.
func XboxAssertion(code string) string {
	return "XboxWeb " + code
}

// TwitchAssertion builds the Authorization header for a Twitch OAuth
// callback.
func TwitchAssertion(code string) string {
	return "TwitchWeb " + code
}
