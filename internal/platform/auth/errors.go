package auth

import "errors"

// Authentication and authorization failures are classified internally so
// callers can log the real cause, but the HTTP bodies produced from them
// stay deliberately generic: a client must not be able to tell a bad
// signature from an expired token, or an unknown email from a wrong
// password.
var (
	ErrNoToken         = errors.New("no token provided")
	ErrTokenMalformed  = errors.New("malformed token")
	ErrTokenSignature  = errors.New("invalid token signature")
	ErrTokenExpired    = errors.New("token expired")
	ErrUnknownIdentity = errors.New("token subject does not resolve to a user")
	ErrRoleDenied      = errors.New("role not permitted for this endpoint")
)

// HTTP-visible messages. These are the only strings the 401/403 paths ever
// send to a client.
const (
	MsgNoToken          = "Access denied. No token provided."
	MsgInvalidToken     = "Invalid token."
	MsgInsufficientRole = "Access denied. Insufficient permissions."
)
