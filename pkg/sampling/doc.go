// Package sampling resolves tag specs into strings using a seeded
// pseudorandom generator.
//
// Every function in this package is a pure function of the generator state
// and its arguments: the same seed and the same spec always produce the same
// output, and specs are never modified.
//
// Selection follows these steps for a group:
//
//  1. The probability gate draws one float and drops the whole group when
//     the draw exceeds the group probability.
//  2. The pool is resolved (a literal, a list, a nested group or a set of
//     named alternatives).
//  3. A count is drawn and clipped against the resolved pool length.
//  4. The declared distribution is resized and normalized.
//  5. Strings are drawn without replacement and put back in pool order.
//
// A group without a pool is a container: its children are sampled in
// declaration order instead. Selected strings get the prefix and suffix,
// are joined with the separator and cleaned up with Cleanup.
package sampling
