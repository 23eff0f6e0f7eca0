package resolver

import (
	"github.com/platinummonkey/pinion/pkg/model"
	"github.com/platinummonkey/pinion/pkg/version"
)

// linkFragments attaches each validated fragment to the plugin version it
// targets. Linkage is keyed on the first-seen fragment id: once an id has
// been processed, later fragments carrying the same id are skipped even when
// they are newer or target a different plugin.
func (r *Resolver) linkFragments() {
	seen := make(map[string]struct{})
	for _, fragment := range r.reg.Fragments() {
		if !requiredFragment(fragment) {
			switch {
			case fragment.ID != "":
				r.status.add(CodeFragmentMissingAttr,
					"fragment %q is missing a required attribute", fragment.ID)
			case fragment.Name != "":
				r.status.add(CodeFragmentMissingAttr,
					"fragment %q is missing a required attribute", fragment.Name)
			default:
				r.status.add(CodeFragmentMissingIDName,
					"fragment is missing both id and name")
			}
			continue
		}
		if _, ok := seen[fragment.ID]; ok {
			continue
		}
		seen[fragment.ID] = struct{}{}
		plugin := r.reg.PluginVersion(fragment.PluginID, fragment.PluginVersion)
		if plugin == nil {
			r.status.add(CodeMissingFragmentPd,
				"fragment %q: target plugin %q version %q not found",
				fragment.ID, fragment.PluginID, fragment.PluginVersion)
			continue
		}
		plugin.Fragments = append(plugin.Fragments, fragment)
	}
}

// resolvePluginFragments folds the attached fragments into plugin. When a
// fragment id has several attached versions, only the greatest version whose
// declared plugin version agrees with the plugin on major and minor is
// applied; the rest are dropped without diagnostic.
func (r *Resolver) resolvePluginFragments(plugin *model.PluginDescriptor) {
	fragmentList := plugin.Fragments
	for len(fragmentList) > 0 {
		currentID := fragmentList[0].ID
		var withID, later []*model.Fragment
		for _, fragment := range fragmentList {
			if fragment.ID == currentID {
				withID = append(withID, fragment)
			} else {
				later = append(later, fragment)
			}
		}
		fragmentList = later

		var latest *model.Fragment
		var latestVer version.Identifier
		targetVer := version.New(plugin.Version)
		for _, fragment := range withID {
			fragmentVer := version.New(fragment.Version)
			pluginVer := version.New(fragment.PluginVersion)
			if pluginVer.Major() != targetVer.Major() || pluginVer.Minor() != targetVer.Minor() {
				continue
			}
			if latest == nil || fragmentVer.GreaterThan(latestVer) {
				latest = fragment
				latestVer = fragmentVer
			}
		}
		if latest != nil {
			r.resolvePluginFragment(latest, plugin)
		}
	}
}

// resolvePluginFragment splices one fragment's contributions into plugin.
func (r *Resolver) resolvePluginFragment(fragment *model.Fragment, plugin *model.PluginDescriptor) {
	if len(fragment.DeclaredExtensions) > 0 {
		addExtensions(fragment.DeclaredExtensions, plugin)
	}
	if len(fragment.DeclaredExtensionPoints) > 0 {
		addExtensionPoints(fragment.DeclaredExtensionPoints, plugin)
	}
	if len(fragment.Runtime) > 0 {
		plugin.Runtime = append(plugin.Runtime, fragment.Runtime...)
	}
	if len(fragment.Requires) > 0 {
		plugin.Requires = append(plugin.Requires, fragment.Requires...)
	}
}

func addExtensions(extensions []*model.Extension, plugin *model.PluginDescriptor) {
	for _, ext := range extensions {
		ext.Parent = plugin
	}
	plugin.DeclaredExtensions = append(plugin.DeclaredExtensions, extensions...)
}

func addExtensionPoints(points []*model.ExtensionPoint, plugin *model.PluginDescriptor) {
	for _, point := range points {
		point.Parent = plugin
	}
	plugin.DeclaredExtensionPoints = append(plugin.DeclaredExtensionPoints, points...)
}
