// Package hierarchy builds the multi-sheet graph of a schematic project
// and derives the reference-to-AR-path index the channel resolver needs.
//
// A schematic project is a root file plus every file transitively
// reachable through $Sheet blocks' sub-sheet paths. Each file is parsed
// at most once, even when multiple sheet instances point at it (the
// common case for a repeated sub-circuit): the file's components carry
// one AR ("annotation reference") override per instantiation path, and
// the index in this package resolves, for every reference used anywhere
// in the project, the single shortest AR path that reaches it.
package hierarchy
