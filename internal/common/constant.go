// Package common contains shared constants and sentinel errors used across
// zentasks components.
package common

const (
	// AuthorizationHeaderName carries the access token on inbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme marker expected in front of the access token.
	BearerPrefix = "Bearer "

	// AuthorityUser is the single authority granted to every authenticated identity.
	AuthorityUser = "USER"
)
