// Package common contains constants and sentinel errors shared by the
// Distillr client and the development backend.
package common

// SessionTokenHeaderName is the gRPC metadata key carrying the anonymous
// session token on identity-bearing calls.
const SessionTokenHeaderName = "session_token"

// Platform identifies the purchase rail the client runs on.
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// Native reports whether p purchases through a mobile store.
func (p Platform) Native() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	return p == PlatformWeb || p.Native()
}
