package error

// ProfileErrorCode defines error codes for profile errors.
// Format: PRF-XXYYYY where XX is category and YYYY is specific error.
type ProfileErrorCode string

const (
	ErrCodeProfileNotFound     ProfileErrorCode = "PRF-010001"
	ErrCodeProfileInvalidEmail ProfileErrorCode = "PRF-010002"
	ErrCodeProfileEmailTaken   ProfileErrorCode = "PRF-010003"
	ErrCodeAvatarRequired      ProfileErrorCode = "PRF-010004"
)

// ProfileError represents a profile error with code and message.
type ProfileError struct {
	Code    ProfileErrorCode
	Message string
	Err     error
}

func (e *ProfileError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProfileError) Unwrap() error {
	return e.Err
}

// NewProfileError creates a new ProfileError.
func NewProfileError(code ProfileErrorCode, message string, err error) *ProfileError {
	return &ProfileError{Code: code, Message: message, Err: err}
}
