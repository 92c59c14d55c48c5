// Package pcb models a KiCad S-expression board file: footprints with
// pads, tracks, vias, zones and drawings, plus the spatial queries and
// mutation primitives the clone engine drives. Parse and Write
// round-trip the subset of the format the model covers, except that
// Write emits every stroke as a bare width and does not write its type;
// coordinates are millimetres, angles degrees.
package pcb
