// Package report turns a positioned chunk group graph into report files.
//
// Two [Emitter] implementations cover the two presentation modes:
//
//   - [HTMLEmitter] embeds the graph document as a JSON script element in
//     the bundled interactive viewer ([ModeHTML]).
//   - [ImageEmitter] renders a static Graphviz picture in SVG, PNG, JPEG,
//     PDF or DOT ([ModeImage]).
//
// Select one with [New] from a [Format]. [Write] stores the artifact
// atomically at one or more paths and [Open] hands the last one to the
// operating system's viewer.
//
// [ParseDocument] reads the embedded document back out of an interactive
// report.
package report
