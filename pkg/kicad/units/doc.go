// Package units provides the small set of pure conversion and path
// utilities the rest of the toolkit depends on: millimetre/inch/nanometre
// conversions and angle-to-KiCad-decidegree conversion for the PCB clone
// engine, and Windows/Linux/Cygwin path normalization for resolving a
// schematic's sub-sheet file references regardless of what platform they
// were authored on.
package units
