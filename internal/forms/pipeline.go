package forms

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/samounneang/asatec-vercel/internal/notify"
	"github.com/samounneang/asatec-vercel/internal/respcache"
)

// Notifier receives transient notifications.
type Notifier interface {
	Notify(n notify.Notification)
}

// Refresher reloads the views a successful write may have changed.
type Refresher interface {
	Refresh(ctx context.Context)
	RefreshCounters(ctx context.Context)
}

// Flow describes one form: its rules and what submitting it does.
type Flow struct {
	Name  string
	Rules []Rule
	// Guard runs after validation and before Submit. A non-nil error is
	// reported with its own notification message.
	Guard  func(ctx context.Context) error
	Submit func(ctx context.Context, values url.Values) error
	// AfterSuccess runs once the notification is queued, before refreshing.
	AfterSuccess func(ctx context.Context)

	SuccessMessage string
	FailureMessage string
	DismissAfter   time.Duration
}

// Action is a write without form input, such as a delete.
type Action struct {
	Name           string
	Do             func(ctx context.Context) error
	SuccessMessage string
	FailureMessage string
	DismissAfter   time.Duration
}

// Result is the outcome of a flow.
type Result struct {
	Form      Form
	Submitted bool
	Err       error
}

// GuardError carries a user-facing message for a refused submission.
type GuardError struct {
	Message string
}

// Error implements the error interface.
func (e *GuardError) Error() string { return "forms: submission refused: " + e.Message }

// Pipeline runs flows: validate, submit, then notify and refresh on success
// or notify and preserve input on failure.
type Pipeline struct {
	notifier  Notifier
	refresher Refresher
	cache     *respcache.Cache
	logger    *zap.Logger
}

// PipelineOptions configures a Pipeline. Refresher and Cache are optional.
type PipelineOptions struct {
	Notifier  Notifier
	Refresher Refresher
	Cache     *respcache.Cache
	Logger    *zap.Logger
}

// NewPipeline builds a Pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		notifier:  opts.Notifier,
		refresher: opts.Refresher,
		cache:     opts.Cache,
		logger:    logger,
	}
}

// Run executes flow against the submitted values.
func (p *Pipeline) Run(ctx context.Context, flow Flow, values url.Values) Result {
	submitted := cloneValues(values)

	if verr := Validate(submitted, flow.Rules); verr != nil {
		return Result{Form: Form{Values: submitted, Errors: verr.Fields}, Err: verr}
	}

	if flow.Guard != nil {
		if err := flow.Guard(ctx); err != nil {
			message := flow.FailureMessage
			var guardErr *GuardError
			if errors.As(err, &guardErr) && guardErr.Message != "" {
				message = guardErr.Message
			}
			p.notify(notify.Error(message, flow.DismissAfter))
			return Result{Form: Form{Values: submitted}, Err: err}
		}
	}

	if err := flow.Submit(ctx, submitted); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return Result{Form: Form{Values: submitted, Errors: verr.Fields}, Err: err}
		}
		p.logger.Warn("form submission failed", zap.String("form", flow.Name), zap.Error(err))
		p.notify(notify.Error(flow.FailureMessage, flow.DismissAfter))
		return Result{Form: Form{Values: submitted}, Err: err}
	}

	p.notify(notify.Success(flow.SuccessMessage, flow.DismissAfter))
	if flow.AfterSuccess != nil {
		flow.AfterSuccess(ctx)
	}
	p.invalidate(ctx)
	return Result{Form: Form{}, Submitted: true}
}

// RunAction executes a write that has no form input.
func (p *Pipeline) RunAction(ctx context.Context, action Action) error {
	if err := action.Do(ctx); err != nil {
		p.logger.Warn("admin action failed", zap.String("action", action.Name), zap.Error(err))
		p.notify(notify.Error(action.FailureMessage, action.DismissAfter))
		return err
	}
	p.notify(notify.Success(action.SuccessMessage, action.DismissAfter))
	p.invalidate(ctx)
	return nil
}

// invalidate drops cached reads and reloads the affected views.
func (p *Pipeline) invalidate(ctx context.Context) {
	p.cache.Clear()
	if p.refresher != nil {
		p.refresher.Refresh(ctx)
		p.refresher.RefreshCounters(ctx)
	}
}

func (p *Pipeline) notify(n notify.Notification) {
	if p.notifier != nil && n.Message != "" {
		p.notifier.Notify(n)
	}
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for key, vals := range values {
		out[key] = append([]string(nil), vals...)
	}
	return out
}
