// Package archive implements the archive container that curve conversions
// write to and read from.
//
// An archive is a single SQLite database holding a flat list of objects keyed
// by their hierarchy path. Curve objects carry typed array properties, each
// with either one static sample or an increasing list of time samples. Sample
// payloads are stored as little-endian blobs. A Writer holds an exclusive
// file lock for its lifetime and commits one object per transaction so that a
// failed object never leaves partial rows behind.
package archive
