// Package form models the registration form: field values, the
// presence check run on submit and the feedback shown after the request.
//
// The presence check uses validation.UserSchema.Blank, so an age of 0 is
// reported as missing and never sent. This mirrors the behaviour users of the
// form already rely on and is kept on purpose.
package form

import (
	"context"
	"io"
	"log"

	"github.com/wichananm65/registration-service/internal/validation"
)

const SuccessMessage = "Success! Thank you for registering"

type State int

const (
	StateEditing State = iota
	StateSubmittedValid
	StateSubmittedInvalid
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmittedValid:
		return "submitted(valid)"
	case StateSubmittedInvalid:
		return "submitted(invalid)"
	default:
		return "unknown"
	}
}

type Form struct {
	schema validation.Schema
	values map[string]string
	logger *log.Logger

	state     State
	submitted bool
	valid     bool
	succeeded bool
	lastErr   error
}

// New returns an empty form. A nil logger discards log output.
func New(logger *log.Logger) *Form {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	f := &Form{
		schema: validation.UserSchema,
		values: make(map[string]string, len(validation.UserSchema)),
		logger: logger,
	}
	for _, field := range f.schema.Fields() {
		f.values[field] = ""
	}
	return f
}

func (f *Form) Rules() validation.Schema { return f.schema }

func (f *Form) Value(field string) string { return f.values[field] }

// Set updates a field and returns the form to editing. Inline errors keep
// showing after an edit until the field is filled in.
func (f *Form) Set(field, value string) {
	if _, ok := f.schema.Rule(field); !ok {
		return
	}
	f.values[field] = value
	f.state = StateEditing
	f.logger.Printf("input changed: %s=%q", field, value)
}

func (f *Form) State() State { return f.state }

func (f *Form) Submitted() bool { return f.submitted }

func (f *Form) Valid() bool { return f.valid }

// Submit runs the presence check. When every field is filled in it returns
// the payload to post and true; otherwise no request must be made.
func (f *Form) Submit() (Registration, bool) {
	f.submitted = true
	f.succeeded = false
	f.lastErr = nil

	if blank := f.schema.Blank(f.values); len(blank) > 0 {
		f.valid = false
		f.state = StateSubmittedInvalid
		f.logger.Printf("form data invalid, blank fields: %v", blank)
		return nil, false
	}

	f.valid = true
	f.state = StateSubmittedValid
	return f.payload(), true
}

// Resolve records the outcome of the request issued after Submit.
// Field values are kept either way.
func (f *Form) Resolve(res *Response, err error) {
	if err != nil {
		f.lastErr = err
		f.succeeded = false
		f.logger.Printf("registration failed: %v", err)
		return
	}
	f.succeeded = true
	if res != nil {
		f.logger.Printf("registration successful: %s", res.Message)
	}
}

// Send submits the form and, when it is valid, performs the request with s.
func (f *Form) Send(ctx context.Context, s Submitter) error {
	reg, ok := f.Submit()
	if !ok {
		return nil
	}
	res, err := s.Register(ctx, reg)
	f.Resolve(res, err)
	return err
}

// FieldError returns the inline hint for a field, or "" when none is shown.
func (f *Form) FieldError(field string) string {
	if !f.submitted {
		return ""
	}
	rule, ok := f.schema.Rule(field)
	if !ok {
		return ""
	}
	for _, blank := range f.schema.Blank(map[string]string{field: f.values[field]}) {
		if blank == field {
			return rule.EmptyHint
		}
	}
	return ""
}

// Success returns the success banner, or "" when it is hidden.
func (f *Form) Success() string {
	if f.submitted && f.valid && f.succeeded {
		return SuccessMessage
	}
	return ""
}

func (f *Form) LastError() error { return f.lastErr }

func (f *Form) payload() Registration {
	reg := make(Registration, len(f.values))
	for _, rule := range f.schema {
		raw := f.values[rule.Field]
		if rule.Kind == validation.KindInt {
			if n, ok := validation.Number(raw); ok {
				reg[rule.Field] = n
				continue
			}
		}
		reg[rule.Field] = raw
	}
	return reg
}
