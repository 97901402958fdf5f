// Package io reads and writes tree documents as JSON.
//
// # JSON Format
//
// A document is one nested object per person:
//
//	{
//	  "firstName": "Ada",
//	  "lastName": "Lovelace",
//	  "color": "green",
//	  "children": [
//	    {"firstName": "Byron", "lastName": "King"}
//	  ]
//	}
//
// firstName and lastName make up the pill label. color is optional; the
// value "green" highlights the pill. children is optional; an empty array
// is the same as no children.
//
// # Import
//
// Use [ImportJSON] to read a file, [ReadJSON] to read from any io.Reader,
// or [DecodeJSON] for bytes already in memory. All three validate the
// document with [Validate].
//
// # Export
//
// [WriteJSON] and [ExportJSON] write a record back out, which is how trees
// loaded from SQLite or MongoDB are converted to the file format.
package io
