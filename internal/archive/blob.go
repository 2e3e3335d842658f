package archive

import (
	"encoding/binary"
	"fmt"
	"math"

	"usdabc/internal/gf"
)

const vec3Size = 12

// encodeSample packs a sample's elements as little-endian 32-bit words.
func encodeSample(dt DataType, s Sample) ([]byte, int, error) {
	switch dt {
	case TypeInt32:
		buf := make([]byte, 0, 4*len(s.Int32))
		for _, v := range s.Int32 {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
		return buf, len(s.Int32), nil
	case TypeFloat32:
		buf := make([]byte, 0, 4*len(s.Float32))
		for _, v := range s.Float32 {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
		return buf, len(s.Float32), nil
	case TypeVec3f:
		buf := make([]byte, 0, vec3Size*len(s.Vec3f))
		for _, v := range s.Vec3f {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.X))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Y))
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Z))
		}
		return buf, len(s.Vec3f), nil
	default:
		return nil, 0, fmt.Errorf("unknown data type %q", dt)
	}
}

// decodeSample unpacks count elements of type dt from data.
func decodeSample(dt DataType, count int, data []byte) (Sample, error) {
	var width int
	switch dt {
	case TypeInt32, TypeFloat32:
		width = 4
	case TypeVec3f:
		width = vec3Size
	default:
		return Sample{}, fmt.Errorf("unknown data type %q", dt)
	}
	if count < 0 || len(data) != count*width {
		return Sample{}, fmt.Errorf("%s sample: %d bytes for %d elements", dt, len(data), count)
	}

	word := func(i int) uint32 { return binary.LittleEndian.Uint32(data[4*i:]) }
	var s Sample
	switch dt {
	case TypeInt32:
		s.Int32 = make([]int32, count)
		for i := range s.Int32 {
			s.Int32[i] = int32(word(i))
		}
	case TypeFloat32:
		s.Float32 = make([]float32, count)
		for i := range s.Float32 {
			s.Float32[i] = math.Float32frombits(word(i))
		}
	case TypeVec3f:
		s.Vec3f = make([]gf.Vec3f, count)
		for i := range s.Vec3f {
			s.Vec3f[i] = gf.Vec3(
				math.Float32frombits(word(3*i)),
				math.Float32frombits(word(3*i+1)),
				math.Float32frombits(word(3*i+2)),
			)
		}
	}
	return s, nil
}
