package anilist

import "time"

// Config holds the AniList endpoints, OAuth client and request pacing settings.
type Config struct {
	// APIURL is the GraphQL endpoint.
	APIURL string `mapstructure:"api_url" default:"https://graphql.anilist.co"`
	// AuthorizeURL is the OAuth authorization page.
	AuthorizeURL string `mapstructure:"authorize_url" default:"https://anilist.co/api/v2/oauth/authorize"`
	// TokenURL exchanges authorization codes for access tokens.
	TokenURL string `mapstructure:"token_url" default:"https://anilist.co/api/v2/oauth/token"`
	// RedirectURI must match the redirect URL registered for the API client.
	RedirectURI string `mapstructure:"redirect_uri" default:"http://localhost"`
	// ClientID and ClientSecret identify the API client used by account login.
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	// RequestsPerMinute paces outgoing requests; 0 disables pacing.
	RequestsPerMinute int `mapstructure:"requests_per_minute" default:"0"`
	// RateLimitWait is the wait used when a rate-limit response carries no Retry-After.
	RateLimitWait time.Duration `mapstructure:"rate_limit_wait" default:"15s"`
	// TimeoutSeconds bounds every HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// ChunkSize is the number of list entries requested per MediaListCollection chunk.
	ChunkSize int `mapstructure:"chunk_size" default:"500"`
}
