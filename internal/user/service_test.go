package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var discardLogger = log.New(io.Discard, "", 0)

func mustRegistration(t require.TestingT, firstName, lastName, age, email any) Registration {
	reg, err := NewRegistration(firstName, lastName, age, email)
	require.NoError(t, err)
	return reg
}

func emailGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		local := rapid.StringMatching(`[a-zA-Z0-9._]{1,10}`).Draw(t, "local")
		domain := rapid.StringMatching(`[a-zA-Z0-9]{1,10}`).Draw(t, "domain")
		tld := rapid.StringMatching(`[a-zA-Z]{2,4}`).Draw(t, "tld")
		return local + "@" + domain + "." + tld
	})
}

func TestService_ValidSubmissionsPersistNormalizedEmail(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := NewInMemoryRepository(nil)
		svc := NewService(repo, WithLogger(discardLogger))

		first := rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(rt, "firstName")
		last := rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(rt, "lastName")
		age := rapid.IntRange(0, 120).Draw(rt, "age")
		pad := rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, "pad")
		email := pad + emailGen().Draw(rt, "email") + pad

		res := svc.Register(context.Background(), mustRegistration(rt, first, last, age, email))

		require.Equal(rt, KindCreated, res.Kind, "result: %+v", res)
		want := strings.ToLower(strings.TrimSpace(email))
		assert.Equal(rt, want, res.User.Email)
		assert.Equal(rt, age, res.User.Age)

		stored, err := repo.GetByEmail(want)
		require.NoError(rt, err)
		assert.Equal(rt, res.User, stored)
	})
}

func TestService_EmailVariantsAlwaysConflict(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := NewInMemoryRepository(nil)
		svc := NewService(repo, WithLogger(discardLogger))

		email := emailGen().Draw(rt, "email")
		first := svc.Register(context.Background(), mustRegistration(rt, "Ada", "Lovelace", 30, email))
		require.Equal(rt, KindCreated, first.Kind)

		flips := rapid.SliceOfN(rapid.Bool(), len(email), len(email)).Draw(rt, "flips")
		var b strings.Builder
		for i, r := range email {
			if flips[i] {
				b.WriteString(strings.ToUpper(string(r)))
			} else {
				b.WriteString(strings.ToLower(string(r)))
			}
		}
		variant := rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, "lead") + b.String() + rapid.StringMatching(`[ \t]{0,3}`).Draw(rt, "trail")

		second := svc.Register(context.Background(), mustRegistration(rt, "Someone", "Else", 40, variant))
		require.Equal(rt, KindDuplicateEmail, second.Kind, "variant %q of %q", variant, email)
		assert.Len(rt, repo.List(), 1)
	})
}

func TestService_OutOfRangeAgeNeverPersists(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := NewInMemoryRepository(nil)
		svc := NewService(repo, WithLogger(discardLogger))

		age := rapid.OneOf(rapid.IntRange(-10000, -1), rapid.IntRange(121, 10000)).Draw(rt, "age")
		res := svc.Register(context.Background(), mustRegistration(rt, "Ada", "Lovelace", age, "ada@x.com"))

		require.Equal(rt, KindInvalidInput, res.Kind)
		assert.Equal(rt, MsgInvalidAge, res.Message)
		assert.Empty(rt, repo.List())
	})
}

func TestService_MissingFieldNeverPersists(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		repo := NewInMemoryRepository(nil)
		svc := NewService(repo, WithLogger(discardLogger))

		values := []any{"Ada", "Lovelace", 30, "ada@x.com"}
		missing := rapid.IntRange(0, 3).Draw(rt, "missing")
		values[missing] = nil

		res := svc.Register(context.Background(), mustRegistration(rt, values[0], values[1], values[2], values[3]))
		require.Equal(rt, KindInvalidInput, res.Kind)
		assert.Equal(rt, MsgFieldsRequired, res.Message)
		assert.Empty(rt, repo.List())
	})
}

func TestService_AssignsIDAndTimestamps(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.FixedZone("x", 3600))
	svc := NewService(NewInMemoryRepository(nil),
		WithLogger(discardLogger),
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string { return "fixed-id" }),
	)

	res := svc.Register(context.Background(), mustRegistration(t, " Ada ", "Lovelace", "30", "ADA@X.COM"))
	require.Equal(t, KindCreated, res.Kind)

	want := now.UTC().Truncate(time.Millisecond)
	assert.Equal(t, "fixed-id", res.User.ID)
	assert.Equal(t, "Ada", res.User.FirstName)
	assert.Equal(t, want, res.User.CreatedAt)
	assert.Equal(t, want, res.User.UpdatedAt)
}

type stubRepository struct {
	err   error
	calls int
}

func (r *stubRepository) Create(_ context.Context, u User) (User, error) {
	r.calls++
	if r.err != nil {
		return User{}, r.err
	}
	return u, nil
}

func TestService_ClassifiesRepositoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"wrapped duplicate", fmt.Errorf("%w: E11000", ErrEmailExists), KindDuplicateEmail},
		{"unexpected", errors.New("socket closed"), KindInternal},
		{"cancelled", context.Canceled, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{err: tt.err}
			svc := NewService(repo, WithLogger(discardLogger))

			res := svc.Register(context.Background(), mustRegistration(t, "Ada", "Lovelace", 30, "ada@x.com"))
			assert.Equal(t, tt.want, res.Kind)
			assert.Equal(t, 1, repo.calls)
			assert.Error(t, res.Err)
		})
	}
}

func TestService_DuplicateKeepsCause(t *testing.T) {
	svc := NewService(&stubRepository{err: fmt.Errorf("%w: E11000", ErrEmailExists)}, WithLogger(discardLogger))

	res := svc.Register(context.Background(), mustRegistration(t, "Ada", "Lovelace", 30, "ada@x.com"))
	require.Equal(t, KindDuplicateEmail, res.Kind)
	assert.ErrorIs(t, res.Err, ErrEmailExists)
	assert.Equal(t, MsgDuplicateEmail, res.Message)
}

func TestService_SchemaFailureSkipsRepository(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, WithLogger(discardLogger))

	res := svc.Register(context.Background(), mustRegistration(t, "Ada", "Lovelace", 30, "no-at-sign"))
	require.Equal(t, KindValidationFailed, res.Kind)
	assert.Equal(t, "Please enter a valid email address", res.Errors["email"])
	assert.Zero(t, repo.calls)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "INVALID_INPUT", KindInvalidInput.String())
	assert.Equal(t, "VALIDATION_FAILED", KindValidationFailed.String())
	assert.Equal(t, "DUPLICATE_EMAIL", KindDuplicateEmail.String())
	assert.Equal(t, "INTERNAL_ERROR", KindInternal.String())
	assert.Equal(t, "UNKNOWN", Kind(42).String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 201, statusFor(KindCreated))
	assert.Equal(t, 400, statusFor(KindInvalidInput))
	assert.Equal(t, 400, statusFor(KindValidationFailed))
	assert.Equal(t, 409, statusFor(KindDuplicateEmail))
	assert.Equal(t, 500, statusFor(KindInternal))
}
