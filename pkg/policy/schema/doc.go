// Package schema defines named validation profiles for effective policies.
//
// A profile bundles the required paths, recommended paths, type constraints,
// value rules, and red-flag patterns for one policy domain. Built-in profiles
// cover the NUJ, IWW, and UCU union standards; additional profiles can be
// loaded from YAML files.
package schema
