// Package stage implements the ".new" staging + rename + ".bak" backup
// discipline every file-mutating operation in this toolkit follows: a
// crash or I/O error midway through a rewrite leaves the original file
// untouched and the partial output confined to its "*.new" path, never
// overwriting the caller's data in place.
//
// It is backed by github.com/viant/afs's abstract file-system service so
// the same staging code works against a local path or any other
// afs-supported storage scheme.
package stage
