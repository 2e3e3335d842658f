package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"usdabc/internal/fileutil"
	"usdabc/internal/gf"
)

type document struct {
	Prims []docPrim `yaml:"prims"`
}

type docPrim struct {
	Path       string         `yaml:"path"`
	Type       string         `yaml:"type,omitempty"`
	Attributes []docAttribute `yaml:"attributes,omitempty"`
}

type docAttribute struct {
	Name          string      `yaml:"name"`
	Type          string      `yaml:"type"`
	Interpolation string      `yaml:"interpolation,omitempty"`
	Default       *yaml.Node  `yaml:"default,omitempty"`
	Samples       []docSample `yaml:"samples,omitempty"`
}

type docSample struct {
	Time  float64    `yaml:"time"`
	Value *yaml.Node `yaml:"value"`
}

// OpenStage loads a YAML scene document from path.
func OpenStage(path string) (*Stage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stage: %w", err)
	}
	defer file.Close()

	stage, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("open stage %s: %w", path, err)
	}
	return stage, nil
}

// Save writes the stage as a YAML scene document.
func (s *Stage) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write stage: %w", err)
	}
	return nil
}

// Decode parses a scene document.
func Decode(r io.Reader) (*Stage, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return NewStage(), nil
		}
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	stage := NewStage()
	for _, dp := range doc.Prims {
		path, err := ParsePath(dp.Path)
		if err != nil {
			return nil, err
		}
		prim, err := stage.DefinePrim(path, dp.Type)
		if err != nil {
			return nil, err
		}
		for _, da := range dp.Attributes {
			if err := decodeAttribute(prim, da); err != nil {
				return nil, err
			}
		}
	}
	return stage, nil
}

func decodeAttribute(prim *Prim, da docAttribute) error {
	attr, err := prim.CreateAttribute(da.Name, da.Type)
	if err != nil {
		return err
	}
	attr.SetInterpolation(da.Interpolation)
	if da.Default != nil {
		value, err := decodeValue(attr.Kind(), da.Default)
		if err != nil {
			return fmt.Errorf("%s.%s default: %w", prim.Path(), da.Name, err)
		}
		if err := attr.Set(value, Default()); err != nil {
			return err
		}
	}
	for _, ds := range da.Samples {
		if ds.Value == nil {
			return fmt.Errorf("%s.%s sample at %v: missing value", prim.Path(), da.Name, ds.Time)
		}
		value, err := decodeValue(attr.Kind(), ds.Value)
		if err != nil {
			return fmt.Errorf("%s.%s sample at %v: %w", prim.Path(), da.Name, ds.Time, err)
		}
		if err := attr.Set(value, At(ds.Time)); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(kind Kind, node *yaml.Node) (Value, error) {
	switch kind {
	case KindInt:
		var x int32
		err := node.Decode(&x)
		return IntValue(x), err
	case KindFloat:
		var x float32
		err := node.Decode(&x)
		return FloatValue(x), err
	case KindVec3f:
		var x [3]float32
		err := node.Decode(&x)
		return Vec3fValue(gf.Vec3(x[0], x[1], x[2])), err
	case KindToken:
		var x string
		err := node.Decode(&x)
		return TokenValue(x), err
	case KindIntArray:
		var x []int32
		err := node.Decode(&x)
		return IntArray(orEmpty(x)), err
	case KindFloatArray:
		var x []float32
		err := node.Decode(&x)
		return FloatArray(orEmpty(x)), err
	case KindVec3fArray:
		var x [][3]float32
		if err := node.Decode(&x); err != nil {
			return Value{}, err
		}
		vecs := make([]gf.Vec3f, len(x))
		for i, v := range x {
			vecs[i] = gf.Vec3(v[0], v[1], v[2])
		}
		return Vec3fArray(vecs), nil
	}
	return Value{}, fmt.Errorf("unsupported value kind %s", kind)
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Encode writes the stage as a scene document.
func (s *Stage) Encode(w io.Writer) error {
	var doc document
	for _, prim := range s.Traverse() {
		dp := docPrim{Path: string(prim.Path()), Type: prim.TypeName()}
		for _, attr := range prim.Attributes() {
			da, err := encodeAttribute(attr)
			if err != nil {
				return fmt.Errorf("encode %s.%s: %w", prim.Path(), attr.Name(), err)
			}
			dp.Attributes = append(dp.Attributes, da)
		}
		doc.Prims = append(doc.Prims, dp)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return enc.Close()
}

func encodeAttribute(attr *Attribute) (docAttribute, error) {
	da := docAttribute{
		Name:          attr.Name(),
		Type:          attr.TypeName(),
		Interpolation: attr.Interpolation(),
	}
	if attr.HasDefault() {
		value, _ := attr.Get(Default())
		node, err := encodeValue(value)
		if err != nil {
			return da, err
		}
		da.Default = node
	}
	for _, sample := range attr.samples {
		node, err := encodeValue(sample.value)
		if err != nil {
			return da, err
		}
		da.Samples = append(da.Samples, docSample{Time: sample.time, Value: node})
	}
	return da, nil
}

func encodeValue(v Value) (*yaml.Node, error) {
	var payload any
	switch v.Kind() {
	case KindInt:
		payload = v.i
	case KindFloat:
		payload = v.f
	case KindVec3f:
		payload = [3]float32{v.v.X, v.v.Y, v.v.Z}
	case KindToken:
		payload = v.tok
	case KindIntArray:
		payload = orEmpty(v.ints)
	case KindFloatArray:
		payload = orEmpty(v.floats)
	case KindVec3fArray:
		vecs := make([][3]float32, len(v.vecs))
		for i, x := range v.vecs {
			vecs[i] = [3]float32{x.X, x.Y, x.Z}
		}
		payload = vecs
	default:
		return nil, fmt.Errorf("cannot encode %s value", v.Kind())
	}
	node := &yaml.Node{}
	if err := node.Encode(payload); err != nil {
		return nil, err
	}
	if node.Kind == yaml.SequenceNode {
		node.Style = yaml.FlowStyle
	}
	return node, nil
}
