package user

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wichananm65/registration-service/internal/validation"
)

type Service struct {
	repo   Repository
	schema validation.Schema
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Service)

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		schema: validation.UserSchema,
		logger: log.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register runs the presence and age pre-checks, then the schema validation,
// and finally a single insert.
func (s *Service) Register(ctx context.Context, reg Registration) Result {
	fields, err := reg.fields()
	if err != nil {
		return invalidInput(MsgInvalidBody)
	}

	if isMissingRequiredFields(fields) {
		return invalidInput(MsgFieldsRequired)
	}

	if !s.ageInRange(fields["age"]) {
		return invalidInput(MsgInvalidAge)
	}

	return s.create(ctx, fields)
}

func (s *Service) create(ctx context.Context, doc map[string]any) Result {
	normalized, errs := s.schema.Validate(doc)
	if len(errs) > 0 {
		return validationFailed(errs)
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	u := User{
		ID:        s.newID(),
		FirstName: normalized["firstName"].(string),
		LastName:  normalized["lastName"].(string),
		Age:       normalized["age"].(int),
		Email:     normalized["email"].(string),
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.repo.Create(ctx, u)
	if err == nil {
		s.logger.Printf("user registered: id=%s email=%s", saved.ID, saved.Email)
		return created(saved)
	}

	if errors.Is(err, ErrEmailExists) {
		return duplicateEmail(err)
	}
	s.logger.Printf("error during registration: %v", err)
	return internal(err)
}

// ageInRange checks the age against the bounds of the schema's age rule
// without requiring a whole number; fractional ages fail schema validation.
// A null or blank age passes here and is reported by the schema as required.
func (s *Service) ageInRange(v any) bool {
	if validation.IsBlank(v) {
		return true
	}
	age, ok := validation.Number(v)
	if !ok {
		return false
	}
	rule, ok := s.schema.Rule("age")
	if !ok {
		return true
	}
	if rule.Min != nil && age < float64(*rule.Min) {
		return false
	}
	if rule.Max != nil && age > float64(*rule.Max) {
		return false
	}
	return true
}

// isMissingRequiredFields treats absent, null and falsy names or email as
// missing. Age is only missing when absent; its value is checked next.
func isMissingRequiredFields(fields map[string]any) bool {
	for _, field := range []string{"firstName", "lastName", "email"} {
		if !truthy(fields[field]) {
			return true
		}
	}
	_, hasAge := fields["age"]
	return !hasAge
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return true
	}
}
