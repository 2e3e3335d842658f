package geom

import (
	"fmt"
	"strings"

	"usdabc/internal/faults"
)

// Interpolation declares how many values a primvar-like attribute holds
// relative to the curve topology.
type Interpolation string

const (
	Constant    Interpolation = "constant"
	Uniform     Interpolation = "uniform"
	Varying     Interpolation = "varying"
	Vertex      Interpolation = "vertex"
	FaceVarying Interpolation = "faceVarying"
)

// DefaultInterpolation applies when widths or normals carry no authored token.
const DefaultInterpolation = Varying

// ParseInterpolation resolves a token. An empty token yields the default.
// faceVarying is recognised but has no curve rate of its own; it degrades to
// varying and the returned error wraps faults.ErrUnsupportedInterpolation.
// Unknown tokens degrade the same way.
func ParseInterpolation(token string) (Interpolation, error) {
	switch Interpolation(strings.TrimSpace(token)) {
	case "":
		return DefaultInterpolation, nil
	case Constant:
		return Constant, nil
	case Uniform:
		return Uniform, nil
	case Varying:
		return Varying, nil
	case Vertex:
		return Vertex, nil
	case FaceVarying:
		return Varying, fmt.Errorf("%w: %s on curves maps to %s", faults.ErrUnsupportedInterpolation, FaceVarying, Varying)
	}
	return Varying, fmt.Errorf("%w: unknown token %q maps to %s", faults.ErrUnsupportedInterpolation, token, Varying)
}

// ExpectedLength returns the array length the rate requires for a batch with
// the given curve and vertex totals.
func (i Interpolation) ExpectedLength(curves, vertices int) int {
	switch i {
	case Constant:
		return 1
	case Uniform:
		return curves
	default:
		return vertices
	}
}

func (i Interpolation) String() string { return string(i) }
