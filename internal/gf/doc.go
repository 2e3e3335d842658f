// Package gf provides the small geometric value types shared by the scene,
// codec, and archive layers.
package gf
