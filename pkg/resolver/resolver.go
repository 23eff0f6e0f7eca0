package resolver

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/pinion/pkg/model"
	"github.com/platinummonkey/pinion/pkg/version"
)

// OptionDebugResolve is the debug option key enabling verbose trace output
// during resolution. The value is compared case-insensitively against "true".
const OptionDebugResolve = "registry/debug/resolve"

// Resolver resolves a plugin registry in place. A Resolver may be reused
// across registries but must not be shared between goroutines during a
// Resolve call.
type Resolver struct {
	reg    *model.Registry
	idmap  map[string]*indexEntry
	status *Status

	trimPlugins bool
	crossLink   bool

	debug  bool
	logger *logrus.Logger
}

// NewResolver returns a resolver with trimming and cross-linking enabled.
// A nil logger falls back to the logrus standard logger.
func NewResolver(logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		trimPlugins: true,
		crossLink:   true,
		logger:      logger,
	}
}

// SetTrimPlugins controls whether disabled descriptors are removed from the
// registry when the resolve completes. Defaults to true.
func (r *Resolver) SetTrimPlugins(value bool) {
	r.trimPlugins = value
}

// SetCrossLink controls whether extensions are linked to their extension
// points during the resolve. Defaults to true.
func (r *Resolver) SetCrossLink(value bool) {
	r.crossLink = value
}

// SetDebugOptions applies externally-configured debug options. Only
// OptionDebugResolve is recognised.
func (r *Resolver) SetDebugOptions(options map[string]string) {
	value, ok := options[OptionDebugResolve]
	r.debug = ok && strings.EqualFold(value, "true")
}

// Resolve resolves registry in place and returns the accumulated status.
// Resolving an already-resolved registry is a no-op with an OK status.
func (r *Resolver) Resolve(registry *model.Registry) *Status {
	r.status = &Status{}
	if registry.Resolved() {
		return r.status
	}
	r.reg = registry
	r.idmap = make(map[string]*indexEntry)
	for _, pd := range registry.Plugins() {
		r.add(pd)
	}
	r.resolve()
	registry.MarkResolved()
	return r.status
}

// add inserts pd into its id's version list, keeping descending order and
// skipping duplicates (first registration of an equal version wins).
func (r *Resolver) add(pd *model.PluginDescriptor) {
	ix, ok := r.idmap[pd.ID]
	if !ok {
		ix = newIndexEntry(r, pd.ID)
		r.idmap[pd.ID] = ix
	}
	pdVer := r.versionOf(pd)
	i := 0
	for ; i < len(ix.verList); i++ {
		elementVer := r.versionOf(ix.verList[i])
		if pdVer.Equal(elementVer) {
			return // ignore duplicates
		}
		if pdVer.GreaterThan(elementVer) {
			break
		}
	}
	ix.verList = append(ix.verList, nil)
	copy(ix.verList[i+1:], ix.verList[i:])
	ix.verList[i] = pd
}

func (r *Resolver) resolve() {
	// Attach fragments to their plugins and fold the fragment contents in.
	r.linkFragments()
	for _, pd := range r.reg.Plugins() {
		if len(pd.Fragments) > 0 {
			r.resolvePluginFragments(pd)
		}
	}

	// Disable anything with a required field missing; the constraint engine
	// assumes required fields exist.
	r.resolveRequiredComponents()

	roots := r.resolveRootDescriptors()
	if len(roots) == 0 {
		r.idmap = nil
		r.reg = nil
		r.status.add(CodeUnableToResolve, "unable to resolve plugin registry: no root plugins found")
		return
	}
	sort.Strings(roots)

	// Walk the dependencies from the roots, setting up constraints. Rolled
	// back subtrees are collected as orphans and re-seeded as roots for a
	// second sweep, which may itself orphan further ids.
	var orphans []string
	for i := 0; i < len(roots); i++ {
		r.resolveNode(roots[i], nil, nil, nil, &orphans)
	}
	for i := 0; i < len(orphans); i++ {
		if containsString(roots, orphans[i]) {
			continue
		}
		roots = append(roots, orphans[i])
		r.debugf("orphan %s", orphans[i])
		r.resolveNode(orphans[i], nil, nil, nil, &orphans)
	}

	// Pick the winning version per id and flip the enabled flags.
	for _, id := range r.sortedIds() {
		r.idmap[id].resolveDependencies(roots)
	}

	// Link extensions to extension points and trim disabled descriptors.
	r.resolvePluginRegistry()

	r.idmap = nil
	r.reg = nil
}

func (r *Resolver) sortedIds() []string {
	ids := make([]string, 0, len(r.idmap))
	for id := range r.idmap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// cookie is the per-DFS-subtree change log: it supports cycle detection and
// rollback of the constraints added below one node.
type cookie struct {
	ok      bool
	changes []*constraint
}

func newCookie() *cookie {
	return &cookie{ok: true}
}

// addChange appends c unless the log already holds a constraint for the same
// prerequisite, which signals a circular dependency.
func (k *cookie) addChange(c *constraint) bool {
	for _, have := range k.changes {
		if have.prereq == c.prereq {
			return false
		}
	}
	k.changes = append(k.changes, c)
	return true
}

// resolveNode recursively sets up dependency constraints for the plugin id
// child. The top-level invocation passes a nil parent and prerequisite.
func (r *Resolver) resolveNode(child string, parent *model.PluginDescriptor, prereq *model.Prerequisite, ck *cookie, orphans *[]string) *cookie {
	r.debugf("PUSH> %s", child)

	if ck == nil {
		ck = newCookie()
	}

	ix, ok := r.idmap[child]
	if !ok {
		if parent != nil {
			r.status.add(CodePrereqDisabled,
				"plugin %q: prerequisite %q is disabled or missing", parent.ID, child)
		}
		r.debugf("<POP  %s not found", child)
		ck.ok = false
		return ck
	}

	current := r.newConstraint(parent, prereq)
	var childPd *model.PluginDescriptor
	if parent != nil {
		childPd = ix.addConstraint(current)
		if childPd == nil {
			r.status.add(CodeUnsatisfiedPrereq,
				"plugin %q: unable to satisfy prerequisite constraint on %q", parent.ID, child)
			// The target id was never constrained by this branch; give it a
			// chance to survive as a root in its own right.
			if !containsString(*orphans, child) {
				*orphans = append(*orphans, child)
			}
			r.debugf("<POP  %s unable to satisfy constraint", child)
			ck.ok = false
			return ck
		}
		if !ck.addChange(current) {
			r.status.add(CodePrereqLoop,
				"plugin %q: prerequisite loop detected through %q", parent.ID, child)
			r.debugf("<POP  %s prerequisite loop", child)
			ck.ok = false
			return ck
		}
	} else {
		childPd = ix.matchingDescriptorFor(current)
		if childPd == nil {
			r.debugf("<POP  %s not found (missing descriptor entry)", child)
			ck.ok = false
			return ck
		}
	}

	// Subtree already resolved under this constraint group.
	if ix.isResolvedFor(current) {
		r.debugf("<POP  %s already resolved", child)
		return ck
	}

	for _, p := range childPd.Requires {
		if !ck.ok {
			break
		}
		ck = r.resolveNode(p.Plugin, childPd, p, ck, orphans)
	}

	if !ck.ok {
		// Roll back every constraint this child added; the freed subtrees
		// are orphans and get another chance as roots.
		for _, change := range ck.changes {
			if change.parent != childPd {
				continue
			}
			r.removeConstraintFor(change.prereq)
			if !containsString(*orphans, change.prereq.Plugin) {
				*orphans = append(*orphans, change.prereq.Plugin)
			}
		}
		if parent != nil {
			r.status.add(CodePrereqDisabled,
				"plugin %q: prerequisite %q is disabled or missing", parent.ID, child)
		}
		childPd.Enabled = false
		r.debugf("<POP  %s failed to resolve subtree", child)
		return ck
	}

	ix.setResolvedFor(current, true)
	r.debugf("<POP  %s %s", child, r.versionOf(childPd))
	return ck
}

func (r *Resolver) removeConstraintFor(prereq *model.Prerequisite) {
	ix, ok := r.idmap[prereq.Plugin]
	if !ok {
		r.debugf("unable to locate index entry for %s", prereq.Plugin)
		return
	}
	ix.removeConstraintFor(prereq)
}

// resolveRootDescriptors determines the roots of the dependency tree and
// disables all but the highest version of each root id.
func (r *Resolver) resolveRootDescriptors() []string {
	ids := make([]string, 0, len(r.idmap))
	for id := range r.idmap {
		ids = append(ids, id)
	}

	// Strip every id that appears in a prerequisite list. Only the highest
	// version of each id contributes its prerequisites here.
	for _, ix := range r.idmap {
		if len(ix.verList) == 0 {
			continue
		}
		for _, prereq := range ix.verList[0].Requires {
			ids = removeString(ids, prereq.Plugin)
		}
	}

	if len(ids) == 0 {
		r.debugf("NO ROOTS")
		return ids
	}

	for _, id := range ids {
		ix, ok := r.idmap[id]
		if !ok {
			continue
		}
		for i, pd := range ix.verList {
			if i == 0 {
				r.debugf("root %s@%s", pd.ID, pd.Version)
				continue
			}
			r.debugf("     %s@%s disabled", pd.ID, pd.Version)
			pd.Enabled = false
		}
	}
	return ids
}

func removeString(list []string, s string) []string {
	for i, have := range list {
		if have == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// versionOf returns pd's version identifier, degrading to the sentinel for
// missing or malformed versions.
func (r *Resolver) versionOf(pd *model.PluginDescriptor) version.Identifier {
	return version.New(pd.Version)
}

func (r *Resolver) debugf(format string, args ...any) {
	if !r.debug {
		return
	}
	r.logger.WithField("component", "resolver").Debugf(format, args...)
}
