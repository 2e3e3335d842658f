// Package faults defines the conversion error taxonomy shared by the codec,
// resolver, schema adapter, and translator.
//
// Each sentinel classifies a failure; Wrap attaches prim and attribute detail
// while keeping errors.Is matching intact. Fatal kinds abort one prim's
// conversion; degradable kinds are recorded as warnings and conversion
// continues.
package faults
