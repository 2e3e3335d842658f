// Package timesample maps between the scene's time model (a default value
// plus optional time samples, queried with Default, a numeric time, or the
// earliest-time sentinel) and the archive's model (a static sample or an
// increasing list of sample times per property).
//
// A property written from a default-only attribute is static in the archive,
// and an earliest-time query on it resolves to the default without looking at
// any sample list. Keeping that distinction on both directions is what makes
// reads symmetric with writes.
package timesample
