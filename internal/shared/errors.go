package shared

import "fmt"

var (
	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrDuplicateEmail   = fmt.Errorf("an account with this email already exists")
	ErrWeakCredential   = fmt.Errorf("credential does not meet requirements")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")

	// Document store errors
	ErrDocumentNotFound = fmt.Errorf("document not found")
	ErrDocumentExists   = fmt.Errorf("document already exists")
	ErrStoreUnavailable = fmt.Errorf("document store unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrUnknownField    = fmt.Errorf("unknown field")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
)

// ProfileWriteError reports a signup whose credential write succeeded but whose
// profile document write did not. The account exists without a profile; callers
// decide whether to retry the profile write or surface the condition.
type ProfileWriteError struct {
	UID string
	Err error
}

func (e *ProfileWriteError) Error() string {
	return fmt.Sprintf("profile write failed for account %s: %v", e.UID, e.Err)
}

func (e *ProfileWriteError) Unwrap() error { return e.Err }
