// Package metadata is the client's local key/value store.
//
// Values are opaque byte strings; callers decide how to encode them. The
// device identity lives here under a single key.
package metadata
