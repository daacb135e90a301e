// Prompt Factory builds text-to-image prompts from a catalog of weighted,
// conditional tag trees.
//
// A catalog is a directory of node documents, an optional global variables
// document and an optional directory of rule sets. Every build is
// deterministic for a node, a seed and a set of overrides.
//
// Usage:
//
//	# Build one prompt
//	promptfactory build --node portrait --seed 42
//
//	# Build with overrides
//	promptfactory build --node portrait --seed 42 --set hair=long --set extra=false
//
//	# Print every visible node's prompt for a seed
//	promptfactory list --seed 42
//
//	# Apply a rule set to a prompt
//	promptfactory rules --rules cleanup "1girl, red hat"
//
//	# Substitute variables in free text
//	promptfactory compose --seed 7 "{subject} in the {where}"
//
//	# Deduplicate and sort a prompt
//	promptfactory tidy --dedupe --sort asc "b, a, b"
//
//	# Validate the catalog
//	promptfactory lint
//
//	# Rebuild whenever the catalog changes
//	promptfactory watch --node portrait
package main

func main() {
	Execute()
}
