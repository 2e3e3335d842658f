package scene

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Path is an absolute prim path such as "/Cubic/Ribbons/VaryingWidth".
type Path string

// RootPath is the pseudo-root that parents every top-level prim.
const RootPath Path = "/"

var errEmptyPath = errors.New("empty prim path")

// ParsePath validates and normalizes an absolute prim path. Element names are
// NFC-normalized so visually identical names compare equal.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyPath
	}
	if !strings.HasPrefix(s, "/") {
		return "", fmt.Errorf("prim path %q is not absolute", s)
	}
	if s == "/" {
		return RootPath, nil
	}
	elems := strings.Split(strings.TrimSuffix(s[1:], "/"), "/")
	for i, elem := range elems {
		if elem == "" {
			return "", fmt.Errorf("prim path %q has an empty element", s)
		}
		if !validName(elem) {
			return "", fmt.Errorf("prim path %q: invalid element name %q", s, elem)
		}
		elems[i] = norm.NFC.String(elem)
	}
	return Path("/" + strings.Join(elems, "/")), nil
}

// MustParsePath is ParsePath for literals known to be valid.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func validName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}

// Parent returns the parent path; the root's parent is the root.
func (p Path) Parent() Path {
	idx := strings.LastIndexByte(string(p), '/')
	if idx <= 0 {
		return RootPath
	}
	return p[:idx]
}

// Name returns the final path element.
func (p Path) Name() string {
	idx := strings.LastIndexByte(string(p), '/')
	return string(p[idx+1:])
}

// IsRoot reports whether p is the pseudo-root.
func (p Path) IsRoot() bool { return p == RootPath }

// Depth returns the number of elements in the path.
func (p Path) Depth() int {
	if p.IsRoot() || p == "" {
		return 0
	}
	return strings.Count(string(p), "/")
}

func (p Path) String() string { return string(p) }
