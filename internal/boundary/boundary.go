// Package boundary implements the error boundary that guards page rendering.
//
// A Boundary starts Healthy and passes rendered output through untouched. The
// first render that returns an error or panics moves it to Failed, reports the
// error once, and from then on every render produces the static fallback
// without invoking the render function again. There is no way back to Healthy.
package boundary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
)

type State int

const (
	Healthy State = iota
	Failed
)

func (s State) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Info is the context captured alongside a render failure.
type Info struct {
	Component string
	Stack     []byte
}

// Reporter receives the error that tripped a boundary. It is called at most once
// per boundary and its outcome is ignored.
type Reporter func(err error, info Info)

// PanicError wraps a value recovered from a panicking render.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic during render: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}

const (
	FallbackTitle   = "Something went wrong"
	FallbackMessage = "Please try logging in again or contact support."
)

// DefaultFallback is used when no fallback is configured.
var DefaultFallback = []byte(`<div class="error-container"><h1>` + FallbackTitle + `</h1><p>` + FallbackMessage + `</p></div>`)

type Boundary struct {
	mu        sync.Mutex
	state     State
	component string
	fallback  []byte
	reporter  Reporter
}

type Option func(*Boundary)

// WithFallback sets the bytes written in place of the children once the boundary failed.
func WithFallback(fallback []byte) Option {
	return func(b *Boundary) {
		b.fallback = fallback
	}
}

func WithReporter(reporter Reporter) Option {
	return func(b *Boundary) {
		b.reporter = reporter
	}
}

// WithComponent names the guarded tree in reports.
func WithComponent(name string) Option {
	return func(b *Boundary) {
		b.component = name
	}
}

// WithState restores a boundary from a previously persisted state.
func WithState(state State) Option {
	return func(b *Boundary) {
		b.state = state
	}
}

func New(opts ...Option) *Boundary {
	b := &Boundary{
		state:    Healthy,
		fallback: DefaultFallback,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Boundary) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Boundary) Failed() bool {
	return b.State() == Failed
}

func (b *Boundary) Fallback() []byte {
	return b.fallback
}

// Render runs render into a buffer and copies the result to w. A render error or
// panic trips the boundary and the fallback is written instead. The returned
// error only reflects failures writing to w, render failures are swallowed here
// and surface through the Reporter and State.
func (b *Boundary) Render(w io.Writer, render func(io.Writer) error) error {
	if b.Failed() {
		return b.WriteFallback(w)
	}

	var buf bytes.Buffer
	stack, err := capture(&buf, render)
	if err != nil {
		b.Fail(err, stack)
		return b.WriteFallback(w)
	}

	_, err = buf.WriteTo(w)
	return err
}

// Fail moves the boundary to Failed. Only the first call reports, later calls
// are no-ops. It returns true when this call caused the transition.
func (b *Boundary) Fail(err error, stack []byte) bool {
	b.mu.Lock()
	if b.state == Failed {
		b.mu.Unlock()
		return false
	}
	b.state = Failed
	reporter := b.reporter
	info := Info{Component: b.component, Stack: stack}
	b.mu.Unlock()

	if reporter != nil {
		reporter(err, info)
	}
	return true
}

func (b *Boundary) WriteFallback(w io.Writer) error {
	_, err := w.Write(b.fallback)
	return err
}

func capture(w io.Writer, render func(io.Writer) error) (stack []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			stack = debug.Stack()
		}
	}()

	return nil, render(w)
}
