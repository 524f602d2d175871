// Package transform prepares a layout graph for layered drawing.
//
// A layered layout needs an acyclic graph whose edges each span exactly one
// row. The steps are applied in this order:
//
//	transform.BreakCycles(g)  // reverse back edges
//	transform.AssignLayers(g) // longest-path rows
//	transform.Subdivide(g)    // virtual nodes on long edges
//	transform.OrderRows(g, 0) // barycentric crossing reduction
//
// # Cycle Breaking
//
// Chunk group relations derived from a build are normally acyclic, but a
// stats file can describe a chunk that is both parent and child of another.
// [BreakCycles] reverses the offending edges instead of dropping them.
//
// # Edge Subdivision
//
// [Subdivide] breaks long edges into single-row hops through virtual nodes
// that record the edge they belong to.
//
// # Crossing Reduction
//
// [OrderRows] runs barycenter sweeps followed by adjacent transpositions and
// reports the crossings left.
package transform
