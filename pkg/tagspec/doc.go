// Package tagspec defines the data model of a prompt tag tree and decodes it
// from node, variable and rule documents.
//
// A tag tree is built from three kinds of Spec:
//
//   - Literal: a string that always contributes verbatim.
//   - Choices: an ordered list of strings, one sampling pool.
//   - *Group: a weighted, optionally multi-valued selection unit with
//     prefix, suffix, separator, probability, number and distribution
//     parameters. A group without a pool is a subgroup container whose
//     non-reserved keys are nested specs.
//
// Documents may be written in JSON or YAML. Both are decoded through
// yaml.v3 node trees so mapping order is kept: declaration order is the
// output order of every sampled group.
//
// # Example
//
//	hair:
//	  prefix: "hair "
//	  number: [1, 3]
//	  distribution: [0.5]
//	  tags: [long, short, braided]
//
// Values built by this package are immutable once decoded. Code that needs
// a variant of a group (for example an override that changes the
// probability) must Clone it first.
package tagspec
