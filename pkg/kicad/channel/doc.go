// Package channel discovers "channels": the other sheet instantiations
// of a repeated sub-circuit that are equivalent, reference-for-reference,
// to a seed set of references the caller selected (typically by drawing
// a rectangle around one instantiation on the PCB). The PCB clone engine
// uses a channel's ref->ref map to find, for every source footprint, the
// matching footprint to clone onto.
package channel
