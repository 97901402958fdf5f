// Package source acquires the tree document a diagram is built from.
//
// [Open] parses a source URI and returns a [Source]; nothing is read until
// [Source.Load] is called. Supported forms:
//
//	family.json                                  local file
//	file:///data/family.json                     local file
//	https://example.com/family.json              HTTP(S), retried on 5xx/429/network errors
//	mongodb://host:27017/genealogy/trees?id=...  one MongoDB document
//	sqlite:///data/family.db?table=people        adjacency table in SQLite
//
// MongoDB documents use the JSON field names (firstName, lastName, color,
// children). When id is omitted the first document of the collection is
// used; a 24-character hex id is matched as an ObjectID, anything else as a
// string _id.
//
// SQLite tables hold one row per person:
//
//	CREATE TABLE people (
//	    id         INTEGER PRIMARY KEY,
//	    parent_id  INTEGER REFERENCES people(id),
//	    first_name TEXT NOT NULL,
//	    last_name  TEXT NOT NULL,
//	    color      TEXT
//	);
//
// Exactly one row must have a NULL parent_id. Siblings are ordered by id.
//
// # Caching
//
// Remote sources (HTTP, MongoDB, SQLite) are cache-first when
// [Options.Cache] is set: the document is stored as JSON under
// [cache.Keyer.DocumentKey] and decoded from there on the next load.
// Local files are never cached.
//
// # Errors
//
// Unknown schemes and malformed URIs fail in Open with INVALID_SOURCE.
// Every Load failure is wrapped with LOAD_FAILED; no partial tree is ever
// returned.
package source
