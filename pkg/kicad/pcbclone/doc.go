// Package pcbclone replicates a selected PCB region onto every channel
// a hierarchy.Index/channel.Tree pair discovers: a designer draws one
// marker zone around a laid-out sub-circuit and its footprints, tracks,
// zones and drawings are propagated onto every repeated instance.
//
// A clone targets footprints that already exist on the board (placed
// from the netlist under their own reference) and repositions them;
// tracks, zones and drawings have no board-side counterpart and are
// duplicated outright with their net codes remapped through the
// equivalent-net map built from corresponding pad pairs.
package pcbclone
