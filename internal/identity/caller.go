// Package identity adapts external authentication into the opaque caller
// identity consumed by the content and interaction services. Tokens are
// random bearer identifiers stored in Valkey with a TTL; the services only
// ever see the resolved Caller, never tokens or credentials.
package identity

import "github.com/google/uuid"

// Caller is the identity associated with one operation invocation. The
// zero value is the anonymous caller.
type Caller struct {
	UserID        uuid.UUID
	Username      string
	Admin         bool
	Authenticated bool

	// Verified is false only while an account with 2FA enabled has not
	// yet completed verification for the current token.
	Verified bool
}

// Anonymous is the caller used for unauthenticated requests.
var Anonymous = Caller{}
