package scene

import (
	"fmt"
	"slices"
	"strings"
)

// Stage owns a set of prims keyed by path. A Stage is not safe for concurrent
// mutation; concurrent readers are fine once authoring is done.
type Stage struct {
	prims map[Path]*Prim
}

// NewStage returns an empty stage.
func NewStage() *Stage {
	return &Stage{prims: make(map[Path]*Prim)}
}

// DefinePrim returns the prim at path, creating it and any missing ancestors.
// Ancestors are created typeless. An existing prim adopts typeName when it is
// non-empty.
func (s *Stage) DefinePrim(path Path, typeName string) (*Prim, error) {
	if path == "" || path.IsRoot() {
		return nil, fmt.Errorf("define prim: invalid path %q", path)
	}
	if _, err := ParsePath(string(path)); err != nil {
		return nil, fmt.Errorf("define prim: %w", err)
	}
	for anc := path.Parent(); !anc.IsRoot(); anc = anc.Parent() {
		if _, ok := s.prims[anc]; !ok {
			s.prims[anc] = newPrim(anc, "")
		}
	}
	if prim, ok := s.prims[path]; ok {
		if typeName != "" {
			prim.typeName = typeName
		}
		return prim, nil
	}
	prim := newPrim(path, typeName)
	s.prims[path] = prim
	return prim, nil
}

// GetPrimAtPath returns the prim at path or nil.
func (s *Stage) GetPrimAtPath(path Path) *Prim {
	return s.prims[path]
}

// Traverse returns every prim in depth-first path order.
func (s *Stage) Traverse() []*Prim {
	paths := make([]Path, 0, len(s.prims))
	for p := range s.prims {
		paths = append(paths, p)
	}
	slices.SortFunc(paths, comparePaths)
	out := make([]*Prim, len(paths))
	for i, p := range paths {
		out[i] = s.prims[p]
	}
	return out
}

// PrimsOfType returns prims whose type name matches, in traversal order.
func (s *Stage) PrimsOfType(typeName string) []*Prim {
	var out []*Prim
	for _, prim := range s.Traverse() {
		if prim.typeName == typeName {
			out = append(out, prim)
		}
	}
	return out
}

// comparePaths orders parents before children and siblings lexically.
func comparePaths(a, b Path) int {
	ae := strings.Split(strings.TrimPrefix(string(a), "/"), "/")
	be := strings.Split(strings.TrimPrefix(string(b), "/"), "/")
	for i := 0; i < len(ae) && i < len(be); i++ {
		if c := strings.Compare(ae[i], be[i]); c != 0 {
			return c
		}
	}
	return len(ae) - len(be)
}
