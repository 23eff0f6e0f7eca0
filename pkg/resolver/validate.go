package resolver

import "github.com/platinummonkey/pinion/pkg/model"

// resolveRequiredComponents disables every enabled descriptor that is
// missing a required attribute, recording a diagnostic per offender.
// Fragments were already screened during linkage.
func (r *Resolver) resolveRequiredComponents() {
	for _, pd := range r.reg.Plugins() {
		if !pd.Enabled {
			continue
		}
		if requiredPluginDescriptor(pd) {
			continue
		}
		pd.Enabled = false
		switch {
		case pd.ID != "":
			r.status.add(CodePluginMissingAttr,
				"plugin %q is missing a required attribute", pd.ID)
		case pd.Name != "":
			r.status.add(CodePluginMissingAttr,
				"plugin %q is missing a required attribute", pd.Name)
		default:
			r.status.add(CodePluginMissingIDName,
				"plugin is missing both id and name")
		}
	}
}

// requiredPluginDescriptor reports whether plugin carries every required
// attribute, including those of its contained elements.
func requiredPluginDescriptor(plugin *model.PluginDescriptor) bool {
	if plugin.Name == "" || plugin.ID == "" || plugin.Version == "" {
		return false
	}
	for _, prereq := range plugin.Requires {
		if !requiredPrerequisite(prereq) {
			return false
		}
	}
	for _, ext := range plugin.DeclaredExtensions {
		if !requiredExtension(ext) {
			return false
		}
	}
	for _, point := range plugin.DeclaredExtensionPoints {
		if !requiredExtensionPoint(point) {
			return false
		}
	}
	for _, library := range plugin.Runtime {
		if !requiredLibrary(library) {
			return false
		}
	}
	for _, fragment := range plugin.Fragments {
		if !requiredFragment(fragment) {
			return false
		}
	}
	return true
}

func requiredPrerequisite(prereq *model.Prerequisite) bool {
	return prereq.Plugin != ""
}

func requiredExtension(ext *model.Extension) bool {
	return ext.Point != ""
}

func requiredExtensionPoint(point *model.ExtensionPoint) bool {
	return point.Name != "" && point.ID != ""
}

func requiredLibrary(library *model.Library) bool {
	return library.Name != ""
}

func requiredFragment(fragment *model.Fragment) bool {
	return fragment.Name != "" &&
		fragment.ID != "" &&
		fragment.PluginID != "" &&
		fragment.PluginVersion != "" &&
		fragment.Version != ""
}
