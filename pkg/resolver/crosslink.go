package resolver

import (
	"strings"

	"github.com/platinummonkey/pinion/pkg/model"
)

// resolvePluginRegistry trims disabled descriptors out of the registry and
// cross-links extensions to their extension points, per the configured
// toggles.
func (r *Resolver) resolvePluginRegistry() {
	if r.trimPlugins {
		r.trimRegistry()
	}
	if r.crossLink {
		for _, pd := range r.reg.Plugins() {
			r.resolvePluginDescriptor(pd)
		}
	}
}

func (r *Resolver) resolvePluginDescriptor(pd *model.PluginDescriptor) {
	// Can be disabled if required attributes were missing.
	if len(pd.DeclaredExtensions) == 0 || !pd.Enabled {
		return
	}
	for _, ext := range pd.DeclaredExtensions {
		r.resolveExtension(ext)
	}
}

// resolveExtension attaches ext to the extension point it targets. The
// target is "pluginId.pointId", split at the last dot.
func (r *Resolver) resolveExtension(ext *model.Extension) {
	target := ext.Point
	dot := strings.LastIndex(target, ".")
	if dot < 0 {
		r.status.add(CodeExtPointUnknown,
			"extension point %q referenced by plugin %q is unknown", target, ext.Parent.ID)
		return
	}
	pluginID := target[:dot]
	pointID := target[dot+1:]

	plugin := r.reg.Plugin(pluginID)
	if plugin == nil {
		r.status.add(CodeExtPointUnknown,
			"extension point %q referenced by plugin %q is unknown", target, ext.Parent.ID)
		return
	}
	if !plugin.Enabled {
		r.status.add(CodeExtPointDisabled,
			"extension point %q referenced by plugin %q belongs to a disabled plugin", target, ext.Parent.ID)
		return
	}

	point := extensionPoint(plugin, pointID)
	if point == nil {
		r.status.add(CodeExtPointUnknown,
			"extension point %q referenced by plugin %q is unknown", target, ext.Parent.ID)
		return
	}
	point.Extensions = append(point.Extensions, ext)
}

// extensionPoint returns plugin's declared extension point with the given
// id, or nil.
func extensionPoint(plugin *model.PluginDescriptor, pointID string) *model.ExtensionPoint {
	if pointID == "" {
		return nil
	}
	for _, point := range plugin.DeclaredExtensionPoints {
		if point.ID == pointID {
			return point
		}
	}
	return nil
}

func (r *Resolver) trimRegistry() {
	plugins := make([]*model.PluginDescriptor, len(r.reg.Plugins()))
	copy(plugins, r.reg.Plugins())
	for _, pd := range plugins {
		if !pd.Enabled {
			r.debugf("removing %s@%s", pd.ID, pd.Version)
			r.reg.RemovePlugin(pd.ID, pd.Version)
		}
	}
}
