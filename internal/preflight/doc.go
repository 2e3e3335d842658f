// Package preflight checks filesystem access before a conversion starts.
//
// The CLI runs these checks ahead of write and read so a missing scene, an
// unwritable destination directory, or an unusable report directory is
// reported up front instead of after every prim has been converted.
package preflight
