// Package variables expands {name} placeholders in sampled tag text.
//
// Placeholders are looked up, in order, in the merged table of global and
// node-local variables and then in the tag index built from every node's
// tags. Fixed variables are resolved once per build; non-fixed variables are
// sampled again at every occurrence. Unknown names are left verbatim.
package variables
