package gas

import "errors"

// Domain errors for simulation operations. The fatal invariant-break
// case is the only one that isn't locally recoverable.
var (
	// ErrInvalidConfig indicates a configuration error: h >= 2R or a
	// flag conflict (caught at Setup), or left_ratio out of [0,1]
	// (caught at Start).
	ErrInvalidConfig = errors.New("gas: invalid configuration")

	// ErrSecondChannelUnsupported marks the reserved two-channel fields
	// as set; that variant is not implemented.
	ErrSecondChannelUnsupported = errors.New("gas: second-channel geometry is not implemented")

	// ErrInvariantBroken indicates a scheduler bookkeeping error (a
	// particle lost from the event order): fatal, no automatic recovery.
	ErrInvariantBroken = errors.New("gas: invariant broken")
)

// SimError wraps a recoverable or fatal event with its simulation
// context, following dynamo.SimulationError.
type SimError struct {
	Step    int
	Time    float64
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return e.Wrapped.Error() + ": " + e.Message
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
