package operation

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/transport"
)

var defaultSuccessText = "operation completed successfully"

type (
	// Operation is an arbitrary asynchronous server call, typically a closure
	// over a transport or api method.
	Operation func(ctx context.Context) (interface{}, error)

	// Options tunes the notices a run emits. The zero value matches the
	// defaults every screen wants: no success notice, error notices on.
	Options struct {
		NotifySuccess  bool
		SilenceErrors  bool
		SuccessMessage string // text for the success notice
		ErrorMessage   string // overrides the normalized error message
	}

	// Result is the uniform outcome of Execute: exactly one of Data/Err is
	// meaningful, selected by Success.
	Result struct {
		Success bool
		Data    interface{}
		Err     *transport.APIError
	}

	// MultiResult is the settle-all outcome of ExecuteMultiple. Data holds the
	// successful payloads in no guaranteed order; Success is true iff Errors
	// is empty.
	MultiResult struct {
		Success bool
		Data    []interface{}
		Errors  []*transport.APIError
	}

	// Runner wraps server calls with uniform loading/error/success state
	// transitions. Execute never returns a Go error: all failures are
	// normalized into the Result.
	Runner struct {
		notifier Notifier
		log      core.Logger

		mu      sync.Mutex
		loading bool
		err     *transport.APIError
		data    interface{}
	}
)

func NewRunner(notifier Notifier, log core.Logger) *Runner {
	return &Runner{notifier: notifier, log: log}
}

func (r *Runner) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Runner) Err() *transport.APIError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Runner) Data() interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Execute runs op and captures its outcome. Loading stays true for the whole
// duration between invocation and settlement.
func (r *Runner) Execute(ctx context.Context, op Operation, opts ...Options) Result {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	r.begin()
	data, err := run(ctx, op)
	if err != nil {
		apiErr := transport.NormalizeError(err)
		r.settleErr(apiErr)
		r.notifyError(o, apiErr)
		return Result{Err: apiErr}
	}

	r.settleOK(data)
	if o.NotifySuccess && r.notifier != nil {
		r.notifier.Success(successText(o))
	}
	return Result{Success: true, Data: data}
}

// ExecuteMultiple runs all operations concurrently and waits for every one to
// settle; individual failures do not cancel the rest. A failure of the
// batching itself is reported as a single-element error list.
func (r *Runner) ExecuteMultiple(ctx context.Context, ops []Operation, opts ...Options) (res MultiResult) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	defer func() {
		if p := recover(); p != nil {
			apiErr := transport.NormalizeError(errors.Errorf("batch execution failed: %v", p))
			r.settleErr(apiErr)
			r.notifyError(o, apiErr)
			res = MultiResult{Errors: []*transport.APIError{apiErr}}
		}
	}()

	r.begin()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		data []interface{}
		errs []*transport.APIError
	)
	for _, op := range ops {
		wg.Add(1)
		go func(op Operation) {
			defer wg.Done()
			d, err := run(ctx, op)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, transport.NormalizeError(err))
				return
			}
			data = append(data, d)
		}(op)
	}
	wg.Wait()

	if len(errs) > 0 {
		r.settleErr(errs[0])
		if !o.SilenceErrors && r.notifier != nil {
			r.notifier.Error(fmt.Sprintf("%d of %d operations failed", len(errs), len(ops)))
		}
		return MultiResult{Data: data, Errors: errs}
	}

	r.settleOK(data)
	if o.NotifySuccess && r.notifier != nil {
		r.notifier.Success(successText(o))
	}
	return MultiResult{Success: true, Data: data}
}

// Reset clears loading, error and data back to their initial values.
func (r *Runner) Reset() {
	r.mu.Lock()
	r.loading = false
	r.err = nil
	r.data = nil
	r.mu.Unlock()
}

// ClearError clears only the error.
func (r *Runner) ClearError() {
	r.mu.Lock()
	r.err = nil
	r.mu.Unlock()
}

// run shields the runner from misbehaving operations: a panic settles as an
// ordinary error instead of crashing the caller.
func run(ctx context.Context, op Operation) (data interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("operation panicked: %v", p)
		}
	}()
	return op(ctx)
}

func (r *Runner) begin() {
	r.mu.Lock()
	r.loading = true
	r.err = nil
	r.mu.Unlock()
}

func (r *Runner) settleOK(data interface{}) {
	r.mu.Lock()
	r.loading = false
	r.data = data
	r.mu.Unlock()
}

func (r *Runner) settleErr(apiErr *transport.APIError) {
	r.mu.Lock()
	r.loading = false
	r.err = apiErr
	r.data = nil
	r.mu.Unlock()
}

func (r *Runner) notifyError(o Options, apiErr *transport.APIError) {
	if o.SilenceErrors || r.notifier == nil {
		return
	}
	msg := o.ErrorMessage
	if msg == "" {
		msg = apiErr.Message
	}
	r.notifier.Error(msg)
}

func successText(o Options) string {
	if o.SuccessMessage != "" {
		return o.SuccessMessage
	}
	return defaultSuccessText
}
