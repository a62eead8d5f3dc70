package streambase

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeNetworkFailure     = "NETWORK_FAILURE"
	textCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
	textCodeLoginInFlight      = "LOGIN_IN_FLIGHT"
	textCodeNotSignedIn        = "NOT_SIGNED_IN"
)

// ErrInvalidCredentials is returned when the service rejects the supplied
// email, password, or admin PIN. Recoverable: surfaced to the form.
var ErrInvalidCredentials = goerrors.New("invalid email, password, or PIN", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrNetwork is returned for transport-level failures talking to the
// service. Transient: callers retry.
var ErrNetwork = goerrors.New("service unreachable, please try again", goerrors.CategoryOperation).
	WithTextCode(textCodeNetworkFailure)

// ErrStorageUnavailable marks durable client storage failures. Never
// surfaced past the TokenStore boundary: persistence is best-effort and the
// in-memory session stays authoritative.
var ErrStorageUnavailable = goerrors.New("client storage unavailable", goerrors.CategoryOperation).
	WithTextCode(textCodeStorageUnavailable)

// ErrTokenExpired is returned when a persisted token's expiry has elapsed.
var ErrTokenExpired = goerrors.New("session token expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for persisted tokens that cannot be decoded.
// TokenStore.Load treats these as absent rather than propagating.
var ErrTokenMalformed = goerrors.New("session token malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrLoginInFlight is returned when a login is attempted while another one
// has not resolved yet.
var ErrLoginInFlight = goerrors.New("another sign-in is already in progress", goerrors.CategoryConflict).
	WithTextCode(textCodeLoginInFlight).
	WithCode(goerrors.CodeConflict)

// ErrNotSignedIn is returned by session-scoped operations invoked while
// logged out.
var ErrNotSignedIn = goerrors.New("no active session", goerrors.CategoryAuth).
	WithTextCode(textCodeNotSignedIn).
	WithCode(goerrors.CodeUnauthorized)

// IsCredentialError reports whether err is a rejected-credential failure.
func IsCredentialError(err error) bool {
	return hasTextCode(err, textCodeInvalidCredentials)
}

// IsNetworkError reports whether err is a transient transport failure.
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetworkFailure)
}

// IsTokenExpiredError will check for expired tokens, including the error
// text produced by the JWT library.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, textCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedTokenError will check for undecodable tokens, including the
// error text produced by the JWT library.
func IsMalformedTokenError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, textCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed")
}

// WrapNetworkError classifies a transport-level failure as transient so
// IsNetworkError matches it.
func WrapNetworkError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(textCodeNetworkFailure)
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
