// Package common contains shared constants and sentinel errors used across
// Bike & Bed components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Roles a session may carry in its metadata bag.
const (
	RoleGuestUser = "guest-user"
	RoleHost      = "host"
)

// RoleMetadataKey is the metadata bag entry holding the session role.
const RoleMetadataKey = "role"
