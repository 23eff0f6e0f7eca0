// Package resolver implements the plugin registry resolver: a batch pass
// that takes a registry of declared plugin descriptors and produces a
// consistent, cross-linked registry in which every enabled plugin's
// prerequisites are satisfied simultaneously by exactly one concrete version
// of each referenced plugin.
//
// # Overview
//
// A resolve pass runs these phases in order:
//
//  1. Index construction: one entry per plugin id holding its versions in
//     descending order plus the constraint concurrency groups.
//  2. Fragment linkage and merging: each fragment is attached to its target
//     plugin version, and the best fragment per fragment id is spliced into
//     the plugin (extensions, extension points, libraries, prerequisites).
//  3. Required-attribute validation: descriptors missing required fields are
//     disabled with a diagnostic.
//  4. Root detection and a constraint-propagating DFS with per-path cycle
//     detection, conflict rollback and orphan recovery.
//  5. Per-id version selection: every version is disabled, then the best
//     match per concurrency group is re-enabled and each prerequisite is
//     annotated with the version it resolved to.
//  6. Cross-linking of extensions to extension points, and removal of
//     disabled descriptors when trimming is on.
//
// Multiple versions of one plugin id may stay enabled together only when
// none of the concurrent versions contributes extensions or extension
// points. A plugin with an extension surface would otherwise contribute
// twice to the same extension-point graph.
//
// # Usage Example
//
//	r := resolver.NewResolver(logger)
//	status := r.Resolve(registry)
//	if !status.OK() {
//		for _, d := range status.Diagnostics() {
//			fmt.Printf("%s: %s\n", d.Code, d.Message)
//		}
//	}
//
// The resolver is single-threaded and holds no state across invocations.
// Faults are never fatal: each one records a warning diagnostic. A descriptor
// with a missing attribute or an unsatisfiable prerequisite is disabled;
// dangling fragment targets and extension targets are only reported.
//
// # Related Packages
//
//   - pkg/model: the registry data model mutated in place
//   - pkg/version: the version identifier algebra
package resolver
