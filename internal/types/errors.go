package types

import "fmt"

// ErrorCode identifies one condition in the closed platform error taxonomy.
// The orchestrator is the only component that branches on codes to decide
// fatal-vs-retry; everything below it just returns them.
type ErrorCode string

const (
	// Issuance failures. All non-retryable: they need operator action, not
	// another attempt in the same session.
	CodeInvalidUser         ErrorCode = "invalid_user"
	CodeMissingEnv          ErrorCode = "missing_env"
	CodeInvalidClientID     ErrorCode = "invalid_client_id"
	CodeInvalidClientSecret ErrorCode = "invalid_client_secret"

	// Token failures. Retryable via re-authentication.
	CodeMissingToken ErrorCode = "missing_token"
	CodeInvalidToken ErrorCode = "invalid_token"
	CodeRevokedToken ErrorCode = "revoked_token"
	CodeExpiredToken ErrorCode = "expired_token"
	CodeMissingScope ErrorCode = "missing_scope"

	// Music failures. Retryable via the music repair dialogue.
	CodeMissingMusicID             ErrorCode = "missing_music_id"
	CodeInvalidMusicID             ErrorCode = "invalid_music_id"
	CodeMissingMusicForConversions ErrorCode = "missing_music_for_conversions"

	// Submission failures with no recovery path.
	CodeGeoRestriction      ErrorCode = "geo_restriction"
	CodeMaxAttemptsExceeded ErrorCode = "max_attempts_exceeded"
)

// Error is the structured error value returned by every fallible platform
// operation. It is immutable after construction and always returned, never
// panicked, so callers can branch on Code.
type Error struct {
	Code      ErrorCode
	Message   string
	Action    string
	Retryable bool
}

// NewError constructs an Error.
func NewError(code ErrorCode, message, action string, retryable bool) *Error {
	return &Error{Code: code, Message: message, Action: action, Retryable: retryable}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Format renders the error the way it is shown to users and fed to the
// advisor: message plus the suggested corrective action.
func (e *Error) Format() string {
	return fmt.Sprintf("%s. Suggested action: %s", e.Message, e.Action)
}

// Is supports errors.Is matching on the code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}
