package model

// MatchRule selects how a prerequisite's version requirement is checked.
type MatchRule string

const (
	// MatchCompatible accepts any version in the same major band at or above
	// the required version. This is the default when a version is given.
	MatchCompatible MatchRule = "compatible"
	// MatchExact accepts only versions equivalent to the required version
	// (same major and minor, service at or above).
	MatchExact MatchRule = "exact"
)

// PluginDescriptor is a single (id, version) plugin record.
type PluginDescriptor struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Version  string `yaml:"version" json:"version"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`

	Requires                []*Prerequisite   `yaml:"requires,omitempty" json:"requires,omitempty"`
	DeclaredExtensions      []*Extension      `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	DeclaredExtensionPoints []*ExtensionPoint `yaml:"extension-points,omitempty" json:"extension_points,omitempty"`
	Runtime                 []*Library        `yaml:"libraries,omitempty" json:"libraries,omitempty"`

	// Fragments attached during resolution. Never populated from a manifest.
	Fragments []*Fragment `yaml:"-" json:"-"`

	// Enabled is flipped by the resolver; descriptors start out enabled.
	Enabled bool `yaml:"-" json:"enabled"`
}

// Prerequisite is a declared requirement from one plugin on another plugin id.
type Prerequisite struct {
	// Plugin is the target plugin id.
	Plugin  string    `yaml:"plugin" json:"plugin"`
	Version string    `yaml:"version,omitempty" json:"version,omitempty"`
	Match   MatchRule `yaml:"match,omitempty" json:"match,omitempty"`

	// Export and Optional are carried for the runtime's benefit; the
	// resolver does not consult them.
	Export   bool `yaml:"export,omitempty" json:"export,omitempty"`
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`

	// ResolvedVersion is the concrete version the prerequisite resolved to.
	// Written by the resolver.
	ResolvedVersion string `yaml:"-" json:"resolved_version,omitempty"`
}

// Exact reports whether the prerequisite demands an equivalent version match.
func (p *Prerequisite) Exact() bool {
	return p.Match == MatchExact
}

// Extension is a contribution a plugin makes to some extension point,
// addressed as "pluginId.pointId".
type Extension struct {
	ID    string `yaml:"id,omitempty" json:"id,omitempty"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Point string `yaml:"point" json:"point"`

	// Parent is the descriptor that declares (or, after fragment merging,
	// hosts) this extension.
	Parent *PluginDescriptor `yaml:"-" json:"-"`
}

// ExtensionPoint is a named slot other plugins extend.
type ExtensionPoint struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Schema string `yaml:"schema,omitempty" json:"schema,omitempty"`

	// Parent is the hosting descriptor.
	Parent *PluginDescriptor `yaml:"-" json:"-"`

	// Extensions is the cross-linked list of contributions, populated by
	// the resolver after version selection.
	Extensions []*Extension `yaml:"-" json:"-"`
}

// Library is a runtime library entry contributed by a plugin or fragment.
type Library struct {
	Name    string   `yaml:"name" json:"name"`
	Exports []string `yaml:"exports,omitempty" json:"exports,omitempty"`
}

// Fragment is an auxiliary contribution bound to a specific plugin version.
// Its extensions, extension points, libraries and prerequisites are spliced
// into the target plugin before resolution.
type Fragment struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// PluginID and PluginVersion identify the target descriptor.
	PluginID      string `yaml:"plugin" json:"plugin"`
	PluginVersion string `yaml:"plugin-version" json:"plugin_version"`

	Requires                []*Prerequisite   `yaml:"requires,omitempty" json:"requires,omitempty"`
	DeclaredExtensions      []*Extension      `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	DeclaredExtensionPoints []*ExtensionPoint `yaml:"extension-points,omitempty" json:"extension_points,omitempty"`
	Runtime                 []*Library        `yaml:"libraries,omitempty" json:"libraries,omitempty"`
}
