package convert

import (
	"fmt"

	"usdabc/internal/faults"
	"usdabc/internal/scene"
)

// PrimError reports a prim that could not be converted. It unwraps to the
// underlying fault so errors.Is works against the faults sentinels.
type PrimError struct {
	Path string
	Kind faults.Kind
	Err  error
}

func (e *PrimError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PrimError) Unwrap() error {
	return e.Err
}

// ErrorKind returns the fault classification used in reports.
func (e *PrimError) ErrorKind() string {
	return string(e.Kind)
}

func newPrimError(path string, err error) *PrimError {
	return &PrimError{Path: path, Kind: faults.Classify(err), Err: err}
}

func atTime(err error, tc scene.TimeCode) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("at time %s: %w", tc, err)
}
