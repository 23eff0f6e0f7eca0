package resolver

import (
	"fmt"

	"github.com/platinummonkey/pinion/pkg/model"
	"github.com/platinummonkey/pinion/pkg/version"
)

// matchType selects the predicate a constraint applies to candidate versions.
type matchType int

const (
	matchExact matchType = iota
	matchCompatible
	matchLatest
)

func (t matchType) String() string {
	return []string{"exact", "compatible", "latest"}[t]
}

// constraint records one parent->prerequisite relationship discovered during
// the DFS. A constraint belongs to at most one constraintsEntry at a time.
type constraint struct {
	parent *model.PluginDescriptor
	prereq *model.Prerequisite
	ver    version.Identifier
	hasVer bool
	typ    matchType
	entry  *constraintsEntry
}

func (r *Resolver) newConstraint(parent *model.PluginDescriptor, prereq *model.Prerequisite) *constraint {
	c := &constraint{parent: parent, prereq: prereq, typ: matchLatest}
	if prereq != nil && prereq.Version != "" {
		c.ver = version.New(prereq.Version)
		c.hasVer = true
		if prereq.Exact() {
			c.typ = matchExact
		} else {
			c.typ = matchCompatible
		}
	}
	return c
}

func (c *constraint) String() string {
	if c.prereq == nil {
		return "(root)"
	}
	s := fmt.Sprintf("%s->%s", c.parent.ID, c.prereq.Plugin)
	if !c.hasVer {
		return s + "(any)"
	}
	return fmt.Sprintf("%s(%s,%s)", s, c.prereq.Version, c.typ)
}

// constraintsEntry is one concurrency group: a set of constraints on the
// same plugin id that are jointly satisfiable by a single descriptor.
type constraintsEntry struct {
	parent      *indexEntry
	constraints []*constraint

	// lastResolved is the group's best match after the last successful add.
	// When an add changes the best match, the group's resolved flag is
	// cleared so the subtree is walked again.
	lastResolved *model.PluginDescriptor

	resolved         bool
	bestMatch        *model.PluginDescriptor
	bestMatchEnabled bool
}

func newConstraintsEntry(parent *indexEntry) *constraintsEntry {
	return &constraintsEntry{parent: parent}
}

func (ce *constraintsEntry) constraintCount() int {
	return len(ce.constraints)
}

// addConstraint tentatively appends c and returns the best descriptor that
// satisfies the whole group, or nil if c conflicts (in which case the append
// is reverted).
func (ce *constraintsEntry) addConstraint(c *constraint) *model.PluginDescriptor {
	ce.constraints = append(ce.constraints, c)
	c.entry = ce
	constrained := ce.matchingDescriptors()
	if len(constrained) == 0 {
		ce.detach(c)
		return nil
	}
	match := constrained[0]
	if match != ce.lastResolved {
		ce.lastResolved = match
		ce.resolved = false
	}
	return match
}

func (ce *constraintsEntry) removeConstraint(c *constraint) {
	ce.parent.res.debugf("removing constraint %s", c)
	ce.detach(c)
	ce.lastResolved = nil
	ce.resolved = false
}

func (ce *constraintsEntry) detach(c *constraint) {
	for i, have := range ce.constraints {
		if have == c {
			ce.constraints = append(ce.constraints[:i], ce.constraints[i+1:]...)
			break
		}
	}
	c.entry = nil
}

func (ce *constraintsEntry) removeConstraintFor(prereq *model.Prerequisite) {
	var remove []*constraint
	for _, c := range ce.constraints {
		if c.prereq == prereq {
			remove = append(remove, c)
		}
	}
	for _, c := range remove {
		ce.removeConstraint(c)
	}
}

func (ce *constraintsEntry) matchingDescriptor() *model.PluginDescriptor {
	constrained := ce.matchingDescriptors()
	if len(constrained) == 0 {
		return nil
	}
	return constrained[0]
}

// matchingDescriptors returns the enabled descriptors of this id that satisfy
// every constraint in the group, in descending version order.
func (ce *constraintsEntry) matchingDescriptors() []*model.PluginDescriptor {
	res := ce.parent.res
	var constrained []*model.PluginDescriptor
	for _, pd := range ce.parent.verList {
		if pd.Enabled {
			constrained = append(constrained, pd)
		}
	}
	for _, c := range ce.constraints {
		if c.typ == matchLatest {
			continue
		}
		// The filter re-walks the full version list per constraint rather
		// than narrowing the running candidate set.
		for _, pd := range ce.parent.verList {
			if !pd.Enabled {
				continue
			}
			if c.typ == matchExact {
				if !res.versionOf(pd).EquivalentTo(c.ver) {
					constrained = removeDescriptor(constrained, pd)
				}
			} else {
				if !res.versionOf(pd).CompatibleWith(c.ver) {
					constrained = removeDescriptor(constrained, pd)
				}
			}
		}
	}
	return constrained
}

func removeDescriptor(list []*model.PluginDescriptor, pd *model.PluginDescriptor) []*model.PluginDescriptor {
	for i, have := range list {
		if have == pd {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// preresolve picks the descriptor that best fits the group's constraints.
// An empty group of a root id takes the latest version as-is; an empty group
// of any other id selects nothing.
func (ce *constraintsEntry) preresolve(roots []string) {
	res := ce.parent.res
	if len(ce.constraints) == 0 {
		if containsString(roots, ce.parent.id) {
			ce.bestMatch = ce.parent.verList[0]
			if ce.bestMatch == nil {
				res.debugf("*ERROR* no resolved descriptor for %s", ce.parent.id)
			} else {
				ce.bestMatchEnabled = ce.bestMatch.Enabled
			}
		}
		return
	}
	ce.bestMatch = ce.matchingDescriptor()
	if ce.bestMatch == nil {
		res.debugf("*ERROR* no resolved descriptor for %s", ce.parent.id)
	} else {
		ce.bestMatchEnabled = true
	}
}

// resolveEntry enables the chosen best match and writes its version back onto
// every prerequisite in the group. Runs after all versions of the id have
// been disabled.
func (ce *constraintsEntry) resolveEntry() {
	if ce.bestMatch == nil {
		return
	}
	ce.bestMatch.Enabled = ce.bestMatchEnabled
	if !ce.bestMatchEnabled {
		return
	}
	res := ce.parent.res
	res.debugf("configured %s@%s", ce.bestMatch.ID, ce.bestMatch.Version)
	resolved := res.versionOf(ce.bestMatch).String()
	for _, c := range ce.constraints {
		c.prereq.ResolvedVersion = resolved
	}
}

// indexEntry is the per-plugin-id constraint index: all known versions in
// descending order plus the concurrency groups. The first group is the base
// group and is never removed.
type indexEntry struct {
	res        *Resolver
	id         string
	verList    []*model.PluginDescriptor
	concurrent []*constraintsEntry
}

func newIndexEntry(res *Resolver, id string) *indexEntry {
	ix := &indexEntry{res: res, id: id}
	ix.concurrent = append(ix.concurrent, newConstraintsEntry(ix))
	return ix
}

// constraintsEntryFor returns the group owning c, falling back to the base
// group. A root constraint (nil prerequisite) is bound to the base group on
// first lookup.
func (ix *indexEntry) constraintsEntryFor(c *constraint) *constraintsEntry {
	if c.entry != nil {
		return c.entry
	}
	ce := ix.concurrent[0]
	if c.prereq == nil {
		c.entry = ce
	}
	return ce
}

// addConstraint tries each existing group in order, then attempts to open a
// new group. Concurrent groups are only permitted when the winning
// descriptor carries no extension surface.
func (ix *indexEntry) addConstraint(c *constraint) *model.PluginDescriptor {
	concurrentCount := len(ix.concurrent)

	for _, ce := range ix.concurrent {
		pd := ce.addConstraint(c)
		if pd == nil {
			continue
		}
		if concurrentCount <= 1 {
			return pd
		}
		if allowConcurrencyFor(pd) {
			return pd
		}
		ce.removeConstraint(c) // cannot be concurrent
		return nil
	}

	// No existing group can hold the constraint. Open a new group, but only
	// if the base group's current pick tolerates a co-resident version.
	if len(ix.concurrent) == 1 {
		base := ix.concurrent[0]
		if !allowConcurrencyFor(base.matchingDescriptor()) {
			return nil
		}
	}

	ce := newConstraintsEntry(ix)
	pd := ce.addConstraint(c)
	if pd == nil {
		return nil
	}
	if !allowConcurrencyFor(pd) {
		ce.removeConstraint(c)
		return nil
	}
	ix.res.debugf("creating new constraints list in %s for %s", ix.id, c)
	ix.concurrent = append(ix.concurrent, ce)
	return pd
}

// allowConcurrencyFor reports whether pd may share its id with another
// enabled version: true only for library-like plugins with no declared
// extensions or extension points.
func allowConcurrencyFor(pd *model.PluginDescriptor) bool {
	if pd == nil {
		return false
	}
	if len(pd.DeclaredExtensions) > 0 {
		return false
	}
	if len(pd.DeclaredExtensionPoints) > 0 {
		return false
	}
	return true
}

func (ix *indexEntry) removeEntry(ce *constraintsEntry) {
	for i, have := range ix.concurrent {
		if have == ce {
			ix.concurrent = append(ix.concurrent[:i], ix.concurrent[i+1:]...)
			return
		}
	}
}

func (ix *indexEntry) removeConstraintFor(prereq *model.Prerequisite) {
	// Walk a snapshot: emptied non-base groups are pruned as we go.
	groups := make([]*constraintsEntry, len(ix.concurrent))
	copy(groups, ix.concurrent)
	for _, ce := range groups {
		ce.removeConstraintFor(prereq)
		if ix.concurrent[0] != ce && ce.constraintCount() == 0 {
			ix.removeEntry(ce)
		}
	}
}

func (ix *indexEntry) matchingDescriptorFor(c *constraint) *model.PluginDescriptor {
	return ix.constraintsEntryFor(c).matchingDescriptor()
}

func (ix *indexEntry) disableAllDescriptors() {
	for _, pd := range ix.verList {
		pd.Enabled = false
	}
}

// resolveDependencies runs the final per-id selection: preresolve each group,
// disable every version, then enable the winners and back-annotate the
// prerequisites.
func (ix *indexEntry) resolveDependencies(roots []string) {
	for _, ce := range ix.concurrent {
		ce.preresolve(roots)
	}
	ix.disableAllDescriptors()
	for _, ce := range ix.concurrent {
		ce.resolveEntry()
	}
}

func (ix *indexEntry) isResolvedFor(c *constraint) bool {
	return ix.constraintsEntryFor(c).resolved
}

func (ix *indexEntry) setResolvedFor(c *constraint, value bool) {
	ix.constraintsEntryFor(c).resolved = value
}

func containsString(list []string, s string) bool {
	for _, have := range list {
		if have == s {
			return true
		}
	}
	return false
}
