package failure

import (
	"errors"
	"fmt"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

// Named is an error that you can read a name from
type Named interface {
	Name() string
}

// WithStackTrace is an error that you can read a stack trace from
type WithStackTrace interface {
	Stack() string
}

type Failure interface {
	error
	Named
}

// FailureWithStackTrace is a Failure that also carries the stack trace of
// where it was raised, empty when unknown.
type FailureWithStackTrace interface {
	Failure
	WithStackTrace
}

type NamedWithStackTrace interface {
	Named
	WithStackTrace
}

type namedWithStackTrace struct {
	name  string
	stack pkgerrors.StackTrace
}

func (n namedWithStackTrace) Name() string {
	return n.name
}

func (n namedWithStackTrace) Stack() string {
	return fmt.Sprintf("%+v", n.stack)
}

func NamedWithCurrentStackTrace(name string) NamedWithStackTrace {
	const depth = 32

	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	f := make(pkgerrors.StackTrace, n)
	for i := 0; i < n; i++ {
		f[i] = pkgerrors.Frame(pcs[i])
	}

	return namedWithStackTrace{name, f}
}

// Category classifies a failure for the purpose of deciding whether the
// submitter or the ledger is at fault.
type Category int

const (
	// Internal failures indicate corrupted host state or a bug.
	Internal Category = iota
	// Malformed input: undecodable payloads, bad fields, bad timestamps.
	Malformed
	// Unauthorized covers bad signatures and senders lacking authority.
	Unauthorized
	// PolicyViolation covers well formed, authenticated requests that the
	// delegation rules forbid.
	PolicyViolation
)

func (c Category) String() string {
	switch c {
	case Malformed:
		return "malformed"
	case Unauthorized:
		return "unauthorized"
	case PolicyViolation:
		return "policy"
	default:
		return "internal"
	}
}

type Categorized interface {
	Category() Category
}

// CategoryOf returns the category of the first categorized error in the
// chain. Errors that carry no category are considered internal.
func CategoryOf(err error) Category {
	var c Categorized
	if errors.As(err, &c) {
		return c.Category()
	}
	return Internal
}

// NameOf returns the name of the first named error in the chain, or
// "Error" when there is none.
func NameOf(err error) string {
	var n Named
	if errors.As(err, &n) {
		return n.Name()
	}
	return "Error"
}

type failure struct {
	name    string
	message string
	stack   string
}

func (f failure) Name() string {
	return f.name
}

func (f failure) Error() string {
	return f.message
}

func (f failure) Stack() string {
	return f.stack
}

// FromError flattens err into a Failure, preserving the name and stack trace
// when err exposes them.
func FromError(err error) FailureWithStackTrace {
	f := failure{name: NameOf(err), message: err.Error()}
	var st WithStackTrace
	if errors.As(err, &st) {
		f.stack = st.Stack()
	}
	return f
}
