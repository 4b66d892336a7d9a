package quantum

import (
	"errors"
	"fmt"

	"github.com/njchilds90/goquantum/quantum/matrixutils"
)

var (
	// ErrTypeMismatch reports an argument of the wrong node or leaf class.
	ErrTypeMismatch = errors.New("quantum: type mismatch")
	// ErrDeclined is returned by leaf rules that have no representation for
	// the requested basis. Represent catches it once and tries a fallback.
	ErrDeclined          = errors.New("quantum: representation declined")
	ErrUnrepresentable   = errors.New("quantum: unrepresentable")
	ErrBasisUnresolved   = errors.New("quantum: basis could not be resolved")
	ErrMalformedExponent = errors.New("quantum: exponent is not a plain number")
	ErrUnknownFormat     = errors.New("quantum: unknown format")
	ErrDimensionMismatch = matrixutils.ErrDimensionMismatch
)

// ValueError carries the value an operation rejected.
type ValueError struct {
	Op    string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("quantum: %s %s: %v", e.Op, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// UnrepresentableError is returned when a leaf declined and the fallback
// could not help either. Reason is the leaf's own refusal; errors.Is matches
// it and ErrUnrepresentable. Fallback is kept for inspection only.
type UnrepresentableError struct {
	Leaf     Object
	Reason   error
	Fallback error
}

func (e *UnrepresentableError) Error() string {
	msg := fmt.Sprintf("quantum: cannot represent %s: %v", e.Leaf, e.Reason)
	if e.Fallback != nil {
		msg += fmt.Sprintf(" (fallback: %v)", e.Fallback)
	}
	return msg
}

func (e *UnrepresentableError) Unwrap() []error {
	return []error{ErrUnrepresentable, e.Reason}
}
