// Package version provides the plugin version identifier algebra used by the
// registry resolver.
//
// # Overview
//
// A version identifier has the form major.minor.service. Prerequisite
// constraints are checked with one of three predicates:
//
// Equivalent: same major and minor, service at least the required
// Compatible: same major, overall version at least the required
// GreaterThan: strict component-wise ordering
//
// # Parsing
//
// Parse returns an error for malformed input. New never fails: anything that
// does not parse degrades to the 1.0.0 sentinel, matching the registry's
// tolerance for sloppy descriptor metadata.
//
// # Related Packages
//
//   - pkg/resolver: consumes the predicates during constraint matching
package version
