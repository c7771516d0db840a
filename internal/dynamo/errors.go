package dynamo

import "errors"

// Domain errors for renderer setup. The per-frame path never returns errors.
var (
	// ErrTableSize indicates a sine table length that is not a power of two.
	ErrTableSize = errors.New("dynamo: table size must be a power of two >= 4")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNoPresets indicates an empty preset list.
	ErrNoPresets = errors.New("dynamo: preset list is empty")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return e.Name + ": " + e.Wrapped.Error()
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
