package user

import "github.com/wichananm65/registration-service/internal/validation"

// Kind tags the outcome of a registration attempt.
type Kind int

const (
	KindCreated Kind = iota
	KindInvalidInput
	KindValidationFailed
	KindDuplicateEmail
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindCreated:
		return "CREATED"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindValidationFailed:
		return "VALIDATION_FAILED"
	case KindDuplicateEmail:
		return "DUPLICATE_EMAIL"
	case KindInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

const (
	MsgCreated          = "User registered successfully!"
	MsgFieldsRequired   = "All fields are required."
	MsgInvalidAge       = "Invalid age provided. Must be between 0 and 120."
	MsgInvalidBody      = "Invalid request body."
	MsgValidationFailed = "Validation failed"
	MsgDuplicateEmail   = "This email address is already registered."
	MsgInternal         = "Server error during registration."
)

// Result is what Service.Register hands to the delivery layer. User is only
// set for KindCreated and Errors only for KindValidationFailed.
type Result struct {
	Kind    Kind
	Message string
	User    User
	Errors  validation.Errors
	Err     error
}

func created(u User) Result {
	return Result{Kind: KindCreated, Message: MsgCreated, User: u}
}

func invalidInput(msg string) Result {
	return Result{Kind: KindInvalidInput, Message: msg}
}

func validationFailed(errs validation.Errors) Result {
	return Result{Kind: KindValidationFailed, Message: MsgValidationFailed, Errors: errs, Err: errs}
}

func duplicateEmail(err error) Result {
	return Result{Kind: KindDuplicateEmail, Message: MsgDuplicateEmail, Err: err}
}

func internal(err error) Result {
	return Result{Kind: KindInternal, Message: MsgInternal, Err: err}
}
