package identity

import "github.com/cuadre/backend/internal/domain/shared"

// IdentityReason says why a session could not be used
type IdentityReason string

const (
	ReasonNotAuthenticated   IdentityReason = "not_authenticated"
	ReasonDeactivated        IdentityReason = "deactivated"
	ReasonProfileUnavailable IdentityReason = "profile_unavailable"
)

// IdentityError is a session that cannot be used. Deactivated accounts and
// unreadable profiles require a sign-out and a redirect to login.
type IdentityError struct {
	Reason  IdentityReason
	Message string
	Err     error
}

func (e *IdentityError) Error() string {
	return e.Message
}

func (e *IdentityError) Unwrap() []error {
	code := "UNAUTHORIZED"
	if e.Reason == ReasonDeactivated {
		code = "ACCOUNT_DEACTIVATED"
	}
	errs := []error{shared.NewDomainError(code, e.Message)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// RequiresSignOut reports whether the client must drop its session
func (e *IdentityError) RequiresSignOut() bool {
	return e.Reason == ReasonDeactivated || e.Reason == ReasonProfileUnavailable
}

// NewIdentityError creates an IdentityError
func NewIdentityError(reason IdentityReason, message string, err error) *IdentityError {
	return &IdentityError{Reason: reason, Message: message, Err: err}
}

// ErrResetTokenInvalid is returned for unknown, used or expired reset tokens
var ErrResetTokenInvalid = shared.NewDomainError("INVALID_RESET_TOKEN", "Reset link is invalid or has expired")
