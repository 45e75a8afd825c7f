// Package compactor turns a live, tagged, reference-counted object graph
// into a position-independent byte region that can be written to disk and
// later loaded back without re-running any of the work that built it.
//
// Compile walks a graph with package compact, deduplicating byte-identical
// sub-objects and rewriting inter-object pointers into intra-buffer offsets.
// Open reverses that with package region's single forward fix-up sweep,
// resurrecting arbitrary-precision integers on the way. Cache wraps Open
// with package regionset's reference-counted LRU so repeated opens of the
// same path share one loaded instance.
package compactor
