// Package hermite converts Hermite curves, which carry a position and an
// outgoing tangent per vertex, to and from an archive's single-value-per-vertex
// curve layout.
//
// Two native bases are supported. The hermite basis interleaves each vertex's
// position and tangent, [P0, T0, P1, T1, ...], doubling the vertex count and
// round-tripping bit-exactly. The bezier basis writes the equivalent cubic
// Bézier control polygon, [P0, P0+T0/3, P1-T1/3, P1, ...], for archives
// without a Hermite basis; tangents are recovered from the handles.
//
// In both bases a two-vertex curve is exactly one native cubic segment.
package hermite
