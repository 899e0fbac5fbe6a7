// Package parser reads policy document files into the raw form the
// normalizer consumes.
//
// A policy file is YAML with declared metadata and a policy tree:
//
//	source_id: team-platform
//	parent: org-baseline
//	priority: 10
//	default_strategy: override
//	policy:
//	  repository:
//	    visibility: private
//	    scopes@union: [read, write]
//
// The parser is a boundary collaborator: it performs file I/O and YAML
// decoding only. Path canonicalization, annotation handling, and all
// semantic checks belong to the normalizer and the engine.
package parser
