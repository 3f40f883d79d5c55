// Package testcase holds the artifact a synthesis run produces and its
// serialized forms.
//
// ARCHITECTURE:
//
//	engine.Run ──► *Testcase ──► String()       plain script (testcase-N.js)
//	                         ├─► WriteLog()     console stream (/*L*/ lines)
//	                         ├─► Hash()         content identity
//	                         └─► store          SQLite archive
//
// A console stream captured from a live host is turned back into testcases
// by ParseLog. The "/*L*/ " prefix marks a JSON-encoded fragment line and the
// separator line marks the beginning of the next testcase.
//
// Identity: Hash covers the seed, the module requests and the fragments.
// Two runs with the same seed, modules and preferences against the same host
// produce the same hash. Run IDs and timestamps are metadata and excluded.
package testcase
