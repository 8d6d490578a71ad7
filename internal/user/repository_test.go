package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestInMemoryCreate_RejectsDuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: "seed", Email: "ada@x.com"}})

	_, err := repo.Create(context.Background(), User{ID: "new", Email: "ada@x.com"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if _, err := repo.Create(context.Background(), User{ID: "other", Email: "grace@x.com"}); err != nil {
		t.Fatalf("expected distinct email to be stored, got %v", err)
	}
	if n := len(repo.List()); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}
}

func TestInMemoryCreate_ConcurrentSameEmail(t *testing.T) {
	repo := NewInMemoryRepository(nil)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(context.Background(), User{ID: fmt.Sprint(i), Email: "same@x.com"})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrEmailExists) {
			t.Fatalf("unexpected error %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one winner, got %d", succeeded)
	}
}

func TestInMemoryCreate_CancelledContext(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.Create(ctx, User{ID: "x", Email: "x@x.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := repo.GetByEmail("x@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClassifyMongoError(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: registration.users index: email_1 dup key: { email: "ada@x.com" }`,
		}},
	}
	if err := classifyMongoError(dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	other := mongo.CommandError{Code: 13, Message: "not authorized"}
	err := classifyMongoError(other)
	if errors.Is(err, ErrEmailExists) {
		t.Fatalf("unauthorized must not be reported as duplicate")
	}
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected wrapped command error, got %v", err)
	}
}

func TestClassifyMongoError_IDCollisionIsNotDuplicateEmail(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: registration.users index: _id_ dup key: { _id: "7f1c" }`,
		}},
	}

	err := classifyMongoError(dup)
	if errors.Is(err, ErrEmailExists) {
		t.Fatalf("an _id collision must not be reported as a duplicate email: %v", err)
	}
	var we mongo.WriteException
	if !errors.As(err, &we) {
		t.Fatalf("expected wrapped write exception, got %v", err)
	}
}

func TestClassifyMongoError_UsesKeyPattern(t *testing.T) {
	raw, err := bson.Marshal(bson.D{
		{Key: "code", Value: 11000},
		{Key: "keyPattern", Value: bson.D{{Key: "email", Value: 1}}},
	})
	if err != nil {
		t.Fatalf("marshal raw write error: %v", err)
	}
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error", Raw: raw}},
	}

	if err := classifyMongoError(dup); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}
