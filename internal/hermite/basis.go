package hermite

import (
	"fmt"
	"strings"
)

// Basis names a native curve layout.
type Basis string

const (
	BasisHermite Basis = "hermite"
	BasisBezier  Basis = "bezier"
)

// ParseBasis resolves a basis name; empty selects BasisHermite.
func ParseBasis(s string) (Basis, error) {
	switch Basis(strings.ToLower(strings.TrimSpace(s))) {
	case "", BasisHermite:
		return BasisHermite, nil
	case BasisBezier:
		return BasisBezier, nil
	}
	return "", fmt.Errorf("unsupported curve basis %q", s)
}

// NativeCount returns the native vertex count for a curve of n Hermite
// vertices.
func (b Basis) NativeCount(n int) int {
	if n <= 0 {
		return 0
	}
	if b == BasisBezier {
		return 3*n - 2
	}
	return 2 * n
}

// HermiteCount inverts NativeCount, reporting false when native is not a
// valid curve length for the basis.
func (b Basis) HermiteCount(native int) (int, bool) {
	if native < 4 {
		return 0, false
	}
	if b == BasisBezier {
		if (native+2)%3 != 0 {
			return 0, false
		}
		return (native + 2) / 3, true
	}
	if native%2 != 0 {
		return 0, false
	}
	return native / 2, true
}

func (b Basis) String() string { return string(b) }
