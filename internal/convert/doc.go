// Package convert translates HermiteCurves prims between scene stages and
// curve archives.
//
// The write path snapshots each prim through the geom schema adapter,
// validates it, encodes every curve through the hermite codec, places the
// samples with the timesample resolver, and commits one archive object per
// prim. The read path mirrors it. Prims are independent: a prim that fails is
// recorded in the Report and the rest of the batch continues unless fail-fast
// is requested.
package convert
