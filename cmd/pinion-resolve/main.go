// Command pinion-resolve runs one batch resolve pass over a plugin
// directory and reports the outcome. It exits non-zero when the pass
// produced diagnostics, which makes it usable as a CI gate for plugin
// bundles.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pinion/pkg/manifest"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

func main() {
	pluginDir := flag.String("dir", ".", "Directory tree containing *.plugin.yaml and *.fragment.yaml manifests")
	trim := flag.Bool("trim", true, "Remove disabled descriptors from the final listing")
	crossLink := flag.Bool("cross-link", true, "Link extensions to extension points")
	debug := flag.Bool("debug", false, "Enable verbose resolver tracing")
	quiet := flag.Bool("quiet", false, "Only print diagnostics, not the final plugin set")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	registry, err := manifest.LoadDir(*pluginDir)
	if err != nil {
		logger.Fatalf("Failed to load plugin directory: %v", err)
	}
	logger.Infof("Loaded %d plugins and %d fragments from %s",
		len(registry.Plugins()), len(registry.Fragments()), *pluginDir)

	r := resolver.NewResolver(logger)
	r.SetTrimPlugins(*trim)
	r.SetCrossLink(*crossLink)
	if *debug {
		r.SetDebugOptions(map[string]string{resolver.OptionDebugResolve: "true"})
	}

	status := r.Resolve(registry)
	for _, d := range status.Diagnostics() {
		logger.Warnf("%s: %s", d.Code, d.Message)
	}

	if !*quiet {
		for _, pd := range registry.Plugins() {
			state := "enabled"
			if !pd.Enabled {
				state = "disabled"
			}
			fmt.Printf("%s %s@%s\n", state, pd.ID, pd.Version)
		}
	}

	if !status.OK() {
		logger.Warnf("Resolve completed with %d diagnostics", len(status.Diagnostics()))
		os.Exit(1)
	}
	logger.Info("Resolve completed cleanly")
}
