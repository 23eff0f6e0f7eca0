// Command pinion-watch keeps a plugin directory continuously resolved: it
// re-runs the resolver when a manifest changes on disk and on a cron
// fallback schedule for changes the watcher misses (network mounts,
// atomic directory swaps).
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pinion/pkg/manifest"
	"github.com/platinummonkey/pinion/pkg/resolver"
)

func main() {
	pluginDir := flag.String("dir", ".", "Directory tree containing plugin manifests")
	delay := flag.Duration("delay", 2*time.Second, "Quiet period after a change before re-resolving")
	schedule := flag.String("schedule", "@every 5m", "Cron schedule for the fallback sweep")
	debug := flag.Bool("debug", false, "Enable verbose resolver tracing")
	flag.Parse()

	logger := logrus.New()
	if *debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	runner := &resolveRunner{dir: *pluginDir, debug: *debug, logger: logger}
	runner.run("startup")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()
	if err := setupWatcher(watcher, *pluginDir); err != nil {
		logger.Fatalf("Failed to setup watcher: %v", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, func() { runner.run("schedule") }); err != nil {
		logger.Fatalf("Failed to schedule fallback sweep: %v", err)
	}
	c.Start()

	logger.Infof("Watching %s for manifest changes (fallback sweep: %s)", *pluginDir, *schedule)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 && isManifest(event.Name) {
				logger.Infof("Manifest changed: %s", event.Name)
				// Debounce: editors and sync tools touch files in bursts.
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(*delay, func() { runner.run("change") })
			}
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warnf("Error watching new directory: %v", err)
					}
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("Watcher error: %v", err)
		case <-sigChan:
			logger.Info("Shutting down gracefully...")
			stopCtx := c.Stop()
			<-stopCtx.Done()
			return
		}
	}
}

func isManifest(path string) bool {
	return strings.HasSuffix(path, manifest.PluginSuffix) ||
		strings.HasSuffix(path, manifest.FragmentSuffix)
}

// setupWatcher recursively adds all directories to the watcher
func setupWatcher(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// resolveRunner serialises resolve passes triggered by the watcher and the
// cron sweep.
type resolveRunner struct {
	mu     sync.Mutex
	dir    string
	debug  bool
	logger *logrus.Logger
}

func (r *resolveRunner) run(trigger string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	registry, err := manifest.LoadDir(r.dir)
	if err != nil {
		r.logger.Errorf("Failed to load plugin directory: %v", err)
		return
	}

	res := resolver.NewResolver(r.logger)
	if r.debug {
		res.SetDebugOptions(map[string]string{resolver.OptionDebugResolve: "true"})
	}
	status := res.Resolve(registry)

	enabled := 0
	for _, pd := range registry.Plugins() {
		if pd.Enabled {
			enabled++
		}
	}
	entry := r.logger.WithFields(logrus.Fields{
		"trigger": trigger,
		"plugins": len(registry.Plugins()),
		"enabled": enabled,
	})
	if status.OK() {
		entry.Info("registry resolved")
		return
	}
	entry.Warnf("registry resolved with %d diagnostics", len(status.Diagnostics()))
	for _, d := range status.Diagnostics() {
		r.logger.Warnf("%s: %s", d.Code, d.Message)
	}
}
