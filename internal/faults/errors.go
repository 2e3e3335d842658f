package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrShapeMismatch marks attribute arrays whose lengths violate the curve
	// batch invariants. Fatal for the prim.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrEncodingOverflow marks curves whose native encoding exceeds what the
	// archive can hold. Fatal for the prim.
	ErrEncodingOverflow = errors.New("encoding overflow")
	// ErrUnsupportedInterpolation marks interpolation tokens with no direct
	// mapping; the value degrades to the nearest supported rate.
	ErrUnsupportedInterpolation = errors.New("unsupported interpolation")
	// ErrTimeResolutionAmbiguity marks time queries that cannot be mapped onto
	// a single archive sample; the default value is used instead.
	ErrTimeResolutionAmbiguity = errors.New("time resolution ambiguity")
)

// Kind is the stable, lower_snake name of a fault class used in reports.
type Kind string

const (
	KindShapeMismatch            Kind = "shape_mismatch"
	KindEncodingOverflow         Kind = "encoding_overflow"
	KindUnsupportedInterpolation Kind = "unsupported_interpolation"
	KindTimeResolutionAmbiguity  Kind = "time_resolution_ambiguity"
	KindIO                       Kind = "io"
)

// Classify maps err onto its fault kind. Unclassified errors are I/O.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrShapeMismatch):
		return KindShapeMismatch
	case errors.Is(err, ErrEncodingOverflow):
		return KindEncodingOverflow
	case errors.Is(err, ErrUnsupportedInterpolation):
		return KindUnsupportedInterpolation
	case errors.Is(err, ErrTimeResolutionAmbiguity):
		return KindTimeResolutionAmbiguity
	default:
		return KindIO
	}
}

// Fatal reports whether a fault of this kind aborts the prim's conversion.
func (k Kind) Fatal() bool {
	switch k {
	case KindUnsupportedInterpolation, KindTimeResolutionAmbiguity:
		return false
	default:
		return true
	}
}

// Wrap builds an error message that includes prim and attribute context while
// tagging it with marker for classification. marker should be one of the
// sentinels above.
func Wrap(marker error, prim, attr, message string, err error) error {
	detail := buildDetail(prim, attr, message)
	if marker == nil {
		marker = ErrShapeMismatch
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Shapef is shorthand for a ShapeMismatch with a formatted message.
func Shapef(prim, attr, format string, args ...any) error {
	return Wrap(ErrShapeMismatch, prim, attr, fmt.Sprintf(format, args...), nil)
}

func buildDetail(prim, attr, message string) string {
	parts := make([]string, 0, 3)
	if prim = strings.TrimSpace(prim); prim != "" {
		parts = append(parts, prim)
	}
	if attr = strings.TrimSpace(attr); attr != "" {
		parts = append(parts, attr)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "conversion failure"
	}
	return strings.Join(parts, ": ")
}
