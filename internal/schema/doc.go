// Package schema checks network and property pack documents against an
// embedded CUE schema, and loads property packs authored in CUE.
//
// Network JSON is only ever persisted in the exchange shape; ValidateNetwork
// catches structural problems (unknown fields, wrong types, ids outside
// uint32, min above max) with source positions before the document reaches
// network.FromDoc, which then checks referential consistency.
//
// CUE packs are plain CUE files with a top-level "pack" field:
//
//	pack: {
//		nodes: [{name: "Threshold", type: "I", min: 0, max: 7}]
//		edges: [
//			{name: "Weight", type: "I", min: -7, max: 7},
//			{name: "Delay", type: "I", min: 1, max: 15},
//		]
//	}
package schema
