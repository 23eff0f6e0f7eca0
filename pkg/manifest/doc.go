// Package manifest loads plugin and fragment descriptors from their YAML
// persistent form into the in-memory registry model.
//
// # Overview
//
// A plugin manifest lives in a *.plugin.yaml file, a fragment manifest in a
// *.fragment.yaml file. LoadDir walks a directory tree and assembles a
// model.Registry from every manifest it finds.
//
// The loader only decodes; required-attribute validation is the resolver's
// job, so a structurally valid YAML file with missing fields still loads and
// is disabled (with a diagnostic) during resolution.
//
// # Usage Example
//
//	registry, err := manifest.LoadDir("/etc/pinion/plugins")
//	if err != nil {
//		return err
//	}
//	status := resolver.NewResolver(logger).Resolve(registry)
package manifest
