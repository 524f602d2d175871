// Package graph defines the chunk group graph document and assembles it from
// extracted data and layout coordinates.
//
// # Document
//
// A [Document] is what the interactive report embeds and the viewer reads:
//
//	{
//	  "buildName": "app",
//	  "nodes": {
//	    "main": {"id": "main", "position": {"x": 0, "y": 0},
//	             "data": {"label": "main (2.0 kB)", "name": "main", "size": 2000,
//	                      "displaySize": "2.0 kB", "entryPoint": true, "chunks": [...]}}
//	  },
//	  "edges": [{"id": "0", "source": "main", "target": "vendor", "data": {"kind": "preload"}}]
//	}
//
// The JSON field names are a contract with the viewer. An edge without a
// loading hint omits "kind".
//
// # Assembly
//
// [Assemble] indexes layout output by node ID, normalizes center anchored
// coordinates to the top-left corner, and reattaches edge kinds by edge ID.
// Any ID mismatch between extraction and layout is an ASSEMBLY_INVARIANT
// error.
//
// # Styles
//
// [Styles] is the single style table for static images and the viewer.
// [DefaultStyles] returns a copy.
package graph
