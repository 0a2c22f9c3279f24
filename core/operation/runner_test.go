package operation_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/operation"
	notifiersvc "github.com/darasalabs/darasa/services/notifier"
	"github.com/darasalabs/darasa/storage/sessionstore"
	testutil "github.com/darasalabs/darasa/tests"
	"github.com/darasalabs/darasa/transport"
)

func setup() (*operation.Runner, *notifiersvc.MockNotifier) {
	notifier := notifiersvc.NewMockNotifier()
	return operation.NewRunner(notifier, testutil.NewTestLogger()), notifier
}

func TestRunner_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		runner, notifier := setup()
		res := runner.Execute(ctx, func(context.Context) (interface{}, error) {
			return "hello", nil
		})
		if !res.Success {
			t.Fatalf("Execute() failed, %v", res.Err)
		}
		if res.Data != "hello" {
			t.Errorf("Data = %v, want hello", res.Data)
		}
		if runner.Loading() {
			t.Error("still loading after settlement")
		}
		if runner.Err() != nil {
			t.Errorf("Err() = %v, want nil", runner.Err())
		}
		if runner.Data() != "hello" {
			t.Errorf("Data() = %v, want hello", runner.Data())
		}
		// no success notice unless asked for
		if len(notifier.Successes) != 0 {
			t.Errorf("Successes = %v, want none", notifier.Successes)
		}
	})

	t.Run("success notice", func(t *testing.T) {
		runner, notifier := setup()
		runner.Execute(ctx, func(context.Context) (interface{}, error) { return nil, nil },
			operation.Options{NotifySuccess: true})
		runner.Execute(ctx, func(context.Context) (interface{}, error) { return nil, nil },
			operation.Options{NotifySuccess: true, SuccessMessage: "saved"})

		want := []string{"operation completed successfully", "saved"}
		if len(notifier.Successes) != 2 || notifier.Successes[0] != want[0] || notifier.Successes[1] != want[1] {
			t.Errorf("Successes = %v, want %v", notifier.Successes, want)
		}
	})

	t.Run("error is normalized and notified", func(t *testing.T) {
		runner, notifier := setup()
		res := runner.Execute(ctx, func(context.Context) (interface{}, error) {
			return nil, &transport.APIError{Status: 403, Message: "forbidden"}
		})
		if res.Success {
			t.Fatal("Execute() succeeded, want failure")
		}
		if res.Err == nil || res.Err.Status != 403 || res.Err.Message != "forbidden" {
			t.Errorf("Err = %+v", res.Err)
		}
		if runner.Err() != res.Err {
			t.Error("runner state and result disagree on the error")
		}
		if len(notifier.Errors) != 1 || notifier.Errors[0] != "forbidden" {
			t.Errorf("Errors = %v, want [forbidden]", notifier.Errors)
		}
	})

	t.Run("error message override", func(t *testing.T) {
		runner, notifier := setup()
		runner.Execute(ctx, func(context.Context) (interface{}, error) {
			return nil, errors.New("boom")
		}, operation.Options{ErrorMessage: "could not save your answer"})
		if len(notifier.Errors) != 1 || notifier.Errors[0] != "could not save your answer" {
			t.Errorf("Errors = %v", notifier.Errors)
		}
	})

	t.Run("silenced errors", func(t *testing.T) {
		runner, notifier := setup()
		res := runner.Execute(ctx, func(context.Context) (interface{}, error) {
			return nil, errors.New("boom")
		}, operation.Options{SilenceErrors: true})
		if res.Success {
			t.Fatal("Execute() succeeded, want failure")
		}
		if len(notifier.Errors) != 0 {
			t.Errorf("Errors = %v, want none", notifier.Errors)
		}
		// the error is still recorded in state
		if runner.Err() == nil {
			t.Error("Err() = nil, want the silenced error")
		}
	})

	t.Run("panicking operation settles as an error", func(t *testing.T) {
		runner, _ := setup()
		res := runner.Execute(ctx, func(context.Context) (interface{}, error) {
			panic("kaboom")
		})
		if res.Success {
			t.Fatal("Execute() succeeded, want failure")
		}
		if !strings.Contains(res.Err.Message, "operation panicked") {
			t.Errorf("Err.Message = %q", res.Err.Message)
		}
		if runner.Loading() {
			t.Error("still loading after a panic")
		}
	})
}

func TestRunner_ExecuteServerError(t *testing.T) {
	fake := testutil.NewFakeAPI()
	defer fake.Close()

	client := transport.NewClient(testutil.NewTestConfig(fake.URL()), transport.Options{
		Store:  sessionstore.NewMemStore(),
		Logger: testutil.NewTestLogger(),
	})
	runner, notifier := setup()

	res := runner.Execute(context.Background(), func(ctx context.Context) (interface{}, error) {
		var out map[string]interface{}
		if err := client.Get(ctx, "/boom", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if res.Success {
		t.Fatal("Execute() succeeded, want failure")
	}
	if res.Err.Status != 500 || res.Err.Message != "boom" {
		t.Errorf("Err = %+v, want 500/boom", res.Err)
	}
	if len(notifier.Errors) != 1 || notifier.Errors[0] != "boom" {
		t.Errorf("Errors = %v, want [boom]", notifier.Errors)
	}
}

func TestRunner_ExecuteMultiple(t *testing.T) {
	ctx := context.Background()

	ok := func(data interface{}) operation.Operation {
		return func(context.Context) (interface{}, error) { return data, nil }
	}
	fail := func(msg string) operation.Operation {
		return func(context.Context) (interface{}, error) { return nil, errors.New(msg) }
	}

	t.Run("all succeed", func(t *testing.T) {
		runner, notifier := setup()
		res := runner.ExecuteMultiple(ctx, []operation.Operation{ok(1), ok(2), ok(3)},
			operation.Options{NotifySuccess: true})
		if !res.Success {
			t.Fatalf("ExecuteMultiple() failed, %v", res.Errors)
		}
		if len(res.Data) != 3 {
			t.Errorf("Data length = %d, want 3", len(res.Data))
		}
		if len(notifier.Successes) != 1 {
			t.Errorf("Successes = %v, want one", notifier.Successes)
		}
	})

	t.Run("partial failure settles everything", func(t *testing.T) {
		runner, notifier := setup()
		res := runner.ExecuteMultiple(ctx, []operation.Operation{ok("a"), fail("boom"), ok("b")})
		if res.Success {
			t.Fatal("ExecuteMultiple() succeeded, want failure")
		}
		if len(res.Data) != 2 {
			t.Errorf("Data length = %d, want 2 (failures must not cancel the rest)", len(res.Data))
		}
		if len(res.Errors) != 1 || res.Errors[0].Message != "boom" {
			t.Errorf("Errors = %v", res.Errors)
		}
		if len(notifier.Errors) != 1 || notifier.Errors[0] != "1 of 3 operations failed" {
			t.Errorf("error notice = %v", notifier.Errors)
		}
	})

	t.Run("no operations", func(t *testing.T) {
		runner, _ := setup()
		res := runner.ExecuteMultiple(ctx, nil)
		if !res.Success {
			t.Errorf("ExecuteMultiple(nil) failed, %v", res.Errors)
		}
	})

	t.Run("panicking operation is contained", func(t *testing.T) {
		runner, _ := setup()
		res := runner.ExecuteMultiple(ctx, []operation.Operation{
			ok("fine"),
			func(context.Context) (interface{}, error) { panic("kaboom") },
		})
		if res.Success {
			t.Fatal("ExecuteMultiple() succeeded, want failure")
		}
		if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "operation panicked") {
			t.Errorf("Errors = %v", res.Errors)
		}
	})
}

func TestRunner_ResetAndClearError(t *testing.T) {
	ctx := context.Background()
	runner, _ := setup()

	runner.Execute(ctx, func(context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	}, operation.Options{SilenceErrors: true})
	if runner.Err() == nil {
		t.Fatal("Err() = nil, want an error to clear")
	}

	runner.ClearError()
	if runner.Err() != nil {
		t.Error("Err() not cleared")
	}

	runner.Execute(ctx, func(context.Context) (interface{}, error) { return "data", nil })
	runner.Reset()
	if runner.Data() != nil || runner.Err() != nil || runner.Loading() {
		t.Error("Reset() did not restore the initial state")
	}
}
