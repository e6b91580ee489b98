package resilience

import "context"

// Fallback runs Primary; if it fails and Condition (default: always) accepts
// the error, runs Fallback instead; otherwise the primary error propagates
// (spec.md §4.7).
type Fallback struct {
	Primary   func(context.Context) error
	Fallback  func(context.Context, error) error
	Condition func(error) bool
}

// WithFallback is a functional-option-free constructor mirroring spec.md's
// `with_fallback(primary, fallback, condition?)`.
func WithFallback(primary func(context.Context) error, fallback func(context.Context, error) error, condition func(error) bool) *Fallback {
	if condition == nil {
		condition = func(error) bool { return true }
	}
	return &Fallback{Primary: primary, Fallback: fallback, Condition: condition}
}

func (f *Fallback) Execute(ctx context.Context) error {
	err := f.Primary(ctx)
	if err == nil {
		return nil
	}
	if !f.Condition(err) {
		return err
	}
	return f.Fallback(ctx, err)
}
