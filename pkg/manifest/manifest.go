package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/pinion/pkg/model"
)

const (
	// PluginSuffix is the file suffix of plugin manifests.
	PluginSuffix = ".plugin.yaml"
	// FragmentSuffix is the file suffix of fragment manifests.
	FragmentSuffix = ".fragment.yaml"
)

// LoadPlugin loads and parses a plugin manifest from a file. The descriptor
// starts out enabled.
func LoadPlugin(path string) (*model.PluginDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var pd model.PluginDescriptor
	if err := yaml.Unmarshal(data, &pd); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	pd.Enabled = true
	return &pd, nil
}

// LoadFragment loads and parses a fragment manifest from a file.
func LoadFragment(path string) (*model.Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var fragment model.Fragment
	if err := yaml.Unmarshal(data, &fragment); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &fragment, nil
}

// SavePlugin writes a plugin manifest to a file.
func SavePlugin(pd *model.PluginDescriptor, path string) error {
	data, err := yaml.Marshal(pd)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// LoadDir walks dir and assembles a registry from every *.plugin.yaml and
// *.fragment.yaml file found. Files are visited in lexical order, which
// fixes the registry's registration order and, through it, the resolver's
// first-seen behaviors.
func LoadDir(dir string) (*model.Registry, error) {
	registry := &model.Registry{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, PluginSuffix):
			pd, err := LoadPlugin(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			registry.AddPlugin(pd)
		case strings.HasSuffix(path, FragmentSuffix):
			fragment, err := LoadFragment(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			registry.AddFragment(fragment)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin directory: %w", err)
	}
	return registry, nil
}
