package security

import "time"

type GuardState int

const (
	StateNoToken GuardState = iota
	StateValid
	StateInvalid
)

func (s GuardState) String() string {
	switch s {
	case StateNoToken:
		return "no-token"
	case StateValid:
		return "valid-token"
	case StateInvalid:
		return "expired-or-invalid"
	}
	return "unknown"
}

// Login redirect reasons, sent as the ?error= query parameter.
const (
	ReasonUnauthorized   = "unauthorized"
	ReasonInvalidToken   = "invalid_token"
	ReasonSessionExpired = "session_expired"
)

type Decision struct {
	State  GuardState
	Reason string
	Claims *IdentityClaims
}

func (d Decision) Allowed() bool {
	return d.State == StateValid
}

// Evaluate classifies a stored token at time now. An empty token is
// rejected without decoding. There is no refresh: expiry is terminal.
func Evaluate(token string, now time.Time) Decision {
	if token == "" {
		return Decision{State: StateNoToken, Reason: ReasonUnauthorized}
	}

	claims, err := DecodeToken(token)
	if err != nil {
		return Decision{State: StateInvalid, Reason: ReasonInvalidToken}
	}

	if !claims.ExpiresAt.After(now) {
		return Decision{State: StateInvalid, Reason: ReasonSessionExpired, Claims: claims}
	}

	return Decision{State: StateValid, Claims: claims}
}
