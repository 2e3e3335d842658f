package scene

import "fmt"

// Prim is a node in the stage hierarchy.
type Prim struct {
	path     Path
	typeName string
	attrs    map[string]*Attribute
	order    []string
}

func newPrim(path Path, typeName string) *Prim {
	return &Prim{path: path, typeName: typeName, attrs: make(map[string]*Attribute)}
}

// Path returns the prim's absolute path.
func (p *Prim) Path() Path { return p.path }

// Name returns the last element of the prim's path.
func (p *Prim) Name() string { return p.path.Name() }

// TypeName returns the schema type, e.g. "HermiteCurves". Empty for typeless prims.
func (p *Prim) TypeName() string { return p.typeName }

// SetTypeName changes the prim's schema type.
func (p *Prim) SetTypeName(typeName string) { p.typeName = typeName }

// GetAttribute returns the named attribute or nil when absent.
func (p *Prim) GetAttribute(name string) *Attribute {
	return p.attrs[name]
}

// HasAttribute reports whether the named attribute exists.
func (p *Prim) HasAttribute(name string) bool {
	_, ok := p.attrs[name]
	return ok
}

// CreateAttribute returns the named attribute, creating it with typeName when
// absent. An existing attribute must have a compatible declared type.
func (p *Prim) CreateAttribute(name, typeName string) (*Attribute, error) {
	kind, err := KindForTypeName(typeName)
	if err != nil {
		return nil, fmt.Errorf("create attribute %s.%s: %w", p.path, name, err)
	}
	if existing, ok := p.attrs[name]; ok {
		if existing.kind != kind {
			return nil, fmt.Errorf("create attribute %s.%s: exists as %s, requested %s", p.path, name, existing.typeName, typeName)
		}
		return existing, nil
	}
	attr := &Attribute{name: name, typeName: typeName, kind: kind}
	p.attrs[name] = attr
	p.order = append(p.order, name)
	return attr, nil
}

// Attributes returns attributes in creation order.
func (p *Prim) Attributes() []*Attribute {
	out := make([]*Attribute, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.attrs[name])
	}
	return out
}
