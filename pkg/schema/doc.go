// Package schema owns the canonical form definition: the ordered question
// list plus theme, background, and publishing settings.
//
// The Store is the only writer. It exposes a closed set of mutation
// operations; every one of them is total (invalid input is coerced, never
// rejected) and re-establishes the document invariants:
//   - the field list is never empty after initialisation,
//   - field ids are unique for the lifetime of the document,
//   - labels carry inline formatting only (never <img>),
//   - the settings tree always holds all groups with all keys, with partial
//     documents deep-merged over defaults rather than replaced.
//
// Load is the lenient entry point for host-injected JSON: unparsable or
// truncated payloads fall back to a default two-question document instead of
// surfacing an error.
package schema
