// Upp resolves layered policy documents into a single effective policy.
//
// It parses YAML policy documents, resolves their inheritance chains, merges
// them field by field under configurable strategies, and validates the
// result against named profiles (NUJ, IWW, UCU) or custom schemas.
//
// Usage:
//
//	# Merge a document set and print the effective policy
//	upp merge policies/ --target newsroom
//
//	# Validate documents against the NUJ profile
//	upp validate contract.yaml --profile nuj
//
//	# Compare two targets from the same document set
//	upp diff policies/ base newsroom
//
//	# Read one value from the effective policy
//	upp get policies/ --target newsroom clauses.kill-fee
//
//	# Re-resolve on file changes
//	upp watch policies/ --target newsroom
package main

func main() {
	Execute()
}
