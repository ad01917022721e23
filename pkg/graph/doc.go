// Package graph provides the wire format for netscope's input documents.
//
// A document is a node-link structure whose positions are supplied by the
// data. It is the format read from files, HTTP endpoints and MongoDB, and the
// format accepted by the session service:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 0, "y": 0, "size": 10, "color": "#1f77b4", "label": "Bob"},
//	    {"id": "b", "x": 4, "y": 2, "size": 6, "color": "#ff7f0e"}
//	  ],
//	  "edges": [{"source": "a", "target": "b", "size": 2}]
//	}
//
// Edges reference nodes by id. They are resolved to node pointers by
// pkg/network at load time; this package does not validate references.
//
// # Core Types
//
//   - [Document]: the node and edge sequences (plus an optional name)
//   - [Node]: id, raw position, size, color and optional label
//   - [Edge]: an unresolved edge, source and target given by id
//
// # Reading and Writing
//
//	doc, _ := graph.ReadDocumentFile("network.json")
//	doc, _ := graph.UnmarshalDocument(data)
//	_ = graph.WriteDocument(doc, os.Stdout)
//
// Decode failures are reported as LOAD_ERROR coded errors.
package graph
