package model

// Registry is a mutable collection of plugin descriptors and fragments.
//
// The zero value is empty and ready to use. A Registry is not safe for
// concurrent use; callers serialise access around resolution.
type Registry struct {
	plugins   []*PluginDescriptor
	fragments []*Fragment
	resolved  bool
}

// NewPluginDescriptor returns an enabled descriptor with the given identity.
func NewPluginDescriptor(id, name, version string) *PluginDescriptor {
	return &PluginDescriptor{
		ID:      id,
		Name:    name,
		Version: version,
		Enabled: true,
	}
}

// AddPlugin appends a descriptor to the registry in registration order and
// points its declared extensions and extension points back at it.
func (r *Registry) AddPlugin(pd *PluginDescriptor) {
	for _, ext := range pd.DeclaredExtensions {
		ext.Parent = pd
	}
	for _, point := range pd.DeclaredExtensionPoints {
		point.Parent = pd
	}
	r.plugins = append(r.plugins, pd)
}

// AddFragment appends a fragment awaiting linkage.
func (r *Registry) AddFragment(f *Fragment) {
	r.fragments = append(r.fragments, f)
}

// Plugins returns all descriptors in registration order. The returned slice
// is the registry's own backing store; callers must not reorder it.
func (r *Registry) Plugins() []*PluginDescriptor {
	return r.plugins
}

// Fragments returns all fragments in registration order.
func (r *Registry) Fragments() []*Fragment {
	return r.fragments
}

// Plugin returns the first descriptor registered under id, or nil.
func (r *Registry) Plugin(id string) *PluginDescriptor {
	for _, pd := range r.plugins {
		if pd.ID == id {
			return pd
		}
	}
	return nil
}

// PluginVersion returns the descriptor with the exact id and version string,
// or nil.
func (r *Registry) PluginVersion(id, version string) *PluginDescriptor {
	for _, pd := range r.plugins {
		if pd.ID == id && pd.Version == version {
			return pd
		}
	}
	return nil
}

// RemovePlugin deletes the descriptor with the exact id and version string.
func (r *Registry) RemovePlugin(id, version string) {
	for i, pd := range r.plugins {
		if pd.ID == id && pd.Version == version {
			r.plugins = append(r.plugins[:i], r.plugins[i+1:]...)
			return
		}
	}
}

// Resolved reports whether the registry has been through a resolve pass.
func (r *Registry) Resolved() bool {
	return r.resolved
}

// MarkResolved flags the registry as resolved. Subsequent resolve calls
// become no-ops.
func (r *Registry) MarkResolved() {
	r.resolved = true
}
