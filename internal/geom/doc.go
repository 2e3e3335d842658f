// Package geom binds the generic scene attribute API to the HermiteCurves
// schema: typed accessors for vertex counts, points, tangents, widths,
// normals, and velocities, the widths/normals interpolation tokens, and the
// CurveBatch snapshot used by the converter.
//
// Nothing here converts data; it only marshals between scene attributes and
// typed Go values.
package geom
