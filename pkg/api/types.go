package api

import (
	"github.com/platinummonkey/pinion/pkg/model"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

// PluginSummary is the list representation of a descriptor
type PluginSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Provider string `json:"provider,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// PrereqInfo describes one prerequisite including its resolution result
type PrereqInfo struct {
	Plugin          string `json:"plugin"`
	Version         string `json:"version,omitempty"`
	Match           string `json:"match,omitempty"`
	ResolvedVersion string `json:"resolved_version,omitempty"`
}

// ExtensionPointInfo describes a declared extension point and how many
// extensions linked to it
type ExtensionPointInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Extensions int    `json:"extensions"`
}

// ExtensionInfo describes a declared extension
type ExtensionInfo struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Point string `json:"point"`
}

// PluginDetail is the full representation of a descriptor
type PluginDetail struct {
	PluginSummary
	Requires        []PrereqInfo         `json:"requires,omitempty"`
	ExtensionPoints []ExtensionPointInfo `json:"extension_points,omitempty"`
	Extensions      []ExtensionInfo      `json:"extensions,omitempty"`
	Libraries       []string             `json:"libraries,omitempty"`
}

// ResolveResponse is the result of a resolve pass
type ResolveResponse struct {
	OK          bool                  `json:"ok"`
	Diagnostics []resolver.Diagnostic `json:"diagnostics"`
	Plugins     int                   `json:"plugins"`
	Enabled     int                   `json:"enabled"`
}

func summarize(pd *model.PluginDescriptor) PluginSummary {
	return PluginSummary{
		ID:       pd.ID,
		Name:     pd.Name,
		Version:  pd.Version,
		Provider: pd.Provider,
		Enabled:  pd.Enabled,
	}
}

func detail(pd *model.PluginDescriptor) PluginDetail {
	d := PluginDetail{PluginSummary: summarize(pd)}
	for _, prereq := range pd.Requires {
		d.Requires = append(d.Requires, PrereqInfo{
			Plugin:          prereq.Plugin,
			Version:         prereq.Version,
			Match:           string(prereq.Match),
			ResolvedVersion: prereq.ResolvedVersion,
		})
	}
	for _, point := range pd.DeclaredExtensionPoints {
		d.ExtensionPoints = append(d.ExtensionPoints, ExtensionPointInfo{
			ID:         point.ID,
			Name:       point.Name,
			Extensions: len(point.Extensions),
		})
	}
	for _, ext := range pd.DeclaredExtensions {
		d.Extensions = append(d.Extensions, ExtensionInfo{
			ID:    ext.ID,
			Name:  ext.Name,
			Point: ext.Point,
		})
	}
	for _, library := range pd.Runtime {
		d.Libraries = append(d.Libraries, library.Name)
	}
	return d
}
