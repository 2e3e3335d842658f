// Package scene is a small in-memory scene graph: a Stage of typed prims
// addressed by absolute paths, each carrying named attributes whose values may
// be authored as a time-independent default and/or as time samples.
//
// Values are a closed tagged variant (see Value) and time coordinates are the
// tagged TimeCode type, so "default", "sample at t", and "earliest available"
// never share a numeric encoding. Stages load from and save to YAML scene
// documents.
//
// Attribute reads use held interpolation: a sample time between two authored
// samples yields the earlier one.
package scene
