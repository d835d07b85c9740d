// Package manifest defines the batch input and output manifests exchanged with
// the surrounding workflow.
//
// Input manifests arrive as JSON, either inline or as a path to a .json file,
// and are validated against an embedded JSON Schema before the positional
// equal-length invariant is enforced. Run identifiers are kept as raw JSON so
// opaque upstream values round-trip into the output untouched.
package manifest
