// Package model defines the in-memory plugin registry: descriptors, their
// prerequisites, extensions, extension points, libraries, and the fragments
// that splice extra contributions into a specific plugin version.
//
// # Overview
//
// A Registry is a mutable collection of plugin descriptors and unattached
// fragments. The resolver (pkg/resolver) mutates a registry in place: it
// attaches fragments, flips enabled flags, annotates prerequisites with the
// version they resolved to, and optionally removes disabled descriptors.
//
// Descriptor identity is the (id, version) pair. Multiple versions of one
// plugin id may coexist in a registry; which of them survive resolution is
// the resolver's business.
//
// # Related Packages
//
//   - pkg/manifest: loads descriptors from plugin.yaml / fragment.yaml files
//   - pkg/resolver: the constraint resolution engine
package model
