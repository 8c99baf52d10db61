// Package catalog models catalog records and the two pure operations the
// deployment pipeline composes: the path-addressed patch engine and the
// canonical document codec.
//
// A canonical document holds exactly one named, typed assignment of the full
// record. Encode produces it deterministically (JSON literal with stable
// field order); Decode extracts the literal structurally, without ever
// evaluating document text as code. For every record the pipeline produces,
// Decode(Encode(id, r)) deep-equals r.
package catalog
