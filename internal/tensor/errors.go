package tensor

import "github.com/pkg/errors"

// Error kinds. Every error returned by this package wraps exactly one of these,
// so callers can classify failures with errors.Is.
var (
	// ErrInvalidArgument reports malformed input: bad shapes, ranges,
	// permutations, byte lengths or descriptor chains.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfBounds reports a concrete index outside its dimension.
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrNotSupported reports an operation this engine deliberately does not provide.
	ErrNotSupported = errors.New("not supported")
)

func invalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func outOfBoundsf(format string, args ...any) error {
	return errors.Wrapf(ErrOutOfBounds, format, args...)
}

func unsupportedf(format string, args ...any) error {
	return errors.Wrapf(ErrNotSupported, format, args...)
}

// Must panics if err is non-nil and returns v otherwise.
// Intended for tests and literals known to be valid.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
