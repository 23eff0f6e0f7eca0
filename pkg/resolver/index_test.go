package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pinion/pkg/model"
)

func indexWithVersions(r *Resolver, id string, versions ...string) *indexEntry {
	ix := newIndexEntry(r, id)
	for _, v := range versions {
		ix.verList = append(ix.verList, descriptor(id, v))
	}
	return ix
}

// TestIndexAdd_DescendingOrder tests version-sorted insertion with
// duplicate skipping
func TestIndexAdd_DescendingOrder(t *testing.T) {
	r := testResolver()
	r.idmap = make(map[string]*indexEntry)
	r.add(descriptor("com.acme.lib", "1.0.0"))
	r.add(descriptor("com.acme.lib", "2.1.0"))
	r.add(descriptor("com.acme.lib", "0.5.0"))
	r.add(descriptor("com.acme.lib", "2.1.0")) // duplicate

	ix := r.idmap["com.acme.lib"]
	require.NotNil(t, ix)
	require.Len(t, ix.verList, 3)
	assert.Equal(t, "2.1.0", ix.verList[0].Version)
	assert.Equal(t, "1.0.0", ix.verList[1].Version)
	assert.Equal(t, "0.5.0", ix.verList[2].Version)
}

// TestMatchingDescriptors_FilterOrder tests that filtering preserves the
// descending version order and applies every constraint
func TestMatchingDescriptors_FilterOrder(t *testing.T) {
	r := testResolver()
	ix := indexWithVersions(r, "com.acme.lib", "2.0.0", "1.4.0", "1.2.0", "1.0.0")
	base := ix.concurrent[0]

	parent := descriptor("com.acme.app", "1.0.0")
	compat := r.newConstraint(parent, requires("com.acme.lib", "1.1.0", model.MatchCompatible))
	require.NotNil(t, base.addConstraint(compat))

	matches := base.matchingDescriptors()
	require.Len(t, matches, 2)
	assert.Equal(t, "1.4.0", matches[0].Version)
	assert.Equal(t, "1.2.0", matches[1].Version)

	exact := r.newConstraint(parent, requires("com.acme.lib", "1.2.0", model.MatchExact))
	require.NotNil(t, base.addConstraint(exact))
	matches = base.matchingDescriptors()
	require.Len(t, matches, 1)
	assert.Equal(t, "1.2.0", matches[0].Version)
}

// TestAddConstraint_ConflictReverts tests that a conflicting constraint is
// rejected without disturbing the group
func TestAddConstraint_ConflictReverts(t *testing.T) {
	r := testResolver()
	ix := indexWithVersions(r, "com.acme.lib", "2.0.0", "1.0.0")
	parent := descriptor("com.acme.app", "1.0.0")

	first := r.newConstraint(parent, requires("com.acme.lib", "1.0.0", model.MatchExact))
	// A lone group accepts regardless of the winner's extension surface.
	require.NotNil(t, ix.addConstraint(first))
	require.Len(t, ix.concurrent, 1)

	// 2.0.0 exact conflicts with 1.0.0 exact; both lib versions are plain
	// libraries, so a second concurrency group opens instead.
	second := r.newConstraint(parent, requires("com.acme.lib", "2.0.0", model.MatchExact))
	pd := ix.addConstraint(second)
	require.NotNil(t, pd)
	assert.Equal(t, "2.0.0", pd.Version)
	assert.Len(t, ix.concurrent, 2)

	// A constraint no candidate satisfies is rejected outright.
	third := r.newConstraint(parent, requires("com.acme.lib", "9.0.0", model.MatchExact))
	assert.Nil(t, ix.addConstraint(third))
	assert.Len(t, ix.concurrent, 2)
}

// TestAddConstraint_ConcurrencyGate tests that an extension surface on the
// winning descriptor blocks the second group
func TestAddConstraint_ConcurrencyGate(t *testing.T) {
	r := testResolver()
	ix := newIndexEntry(r, "com.acme.lib")
	withSurface := descriptor("com.acme.lib", "1.0.0")
	withSurface.DeclaredExtensionPoints = []*model.ExtensionPoint{{ID: "p", Name: "P"}}
	ix.verList = []*model.PluginDescriptor{descriptor("com.acme.lib", "2.0.0"), withSurface}

	parent := descriptor("com.acme.app", "1.0.0")
	first := r.newConstraint(parent, requires("com.acme.lib", "1.0.0", model.MatchExact))
	require.NotNil(t, ix.addConstraint(first))

	second := r.newConstraint(parent, requires("com.acme.lib", "2.0.0", model.MatchExact))
	assert.Nil(t, ix.addConstraint(second),
		"base group's winner declares an extension point, concurrency must be refused")
	assert.Len(t, ix.concurrent, 1)
}

// TestRemoveConstraintFor_PrunesEmptyGroups tests group teardown: the base
// group survives empty, later groups do not
func TestRemoveConstraintFor_PrunesEmptyGroups(t *testing.T) {
	r := testResolver()
	ix := indexWithVersions(r, "com.acme.lib", "2.0.0", "1.0.0")
	parent := descriptor("com.acme.app", "1.0.0")

	basePrereq := requires("com.acme.lib", "1.0.0", model.MatchExact)
	require.NotNil(t, ix.addConstraint(r.newConstraint(parent, basePrereq)))
	concurrentPrereq := requires("com.acme.lib", "2.0.0", model.MatchExact)
	require.NotNil(t, ix.addConstraint(r.newConstraint(parent, concurrentPrereq)))
	require.Len(t, ix.concurrent, 2)

	ix.removeConstraintFor(concurrentPrereq)
	assert.Len(t, ix.concurrent, 1, "emptied non-base group is deleted")

	ix.removeConstraintFor(basePrereq)
	assert.Len(t, ix.concurrent, 1, "base group persists even when empty")
	assert.Zero(t, ix.concurrent[0].constraintCount())
}

// TestAllowConcurrencyFor tests the library-like predicate
func TestAllowConcurrencyFor(t *testing.T) {
	assert.False(t, allowConcurrencyFor(nil))

	plain := descriptor("com.acme.lib", "1.0.0")
	assert.True(t, allowConcurrencyFor(plain))

	withExt := descriptor("com.acme.lib", "1.0.0")
	withExt.DeclaredExtensions = []*model.Extension{{Point: "a.b"}}
	assert.False(t, allowConcurrencyFor(withExt))

	withPoint := descriptor("com.acme.lib", "1.0.0")
	withPoint.DeclaredExtensionPoints = []*model.ExtensionPoint{{ID: "p", Name: "P"}}
	assert.False(t, allowConcurrencyFor(withPoint))
}

// TestCookie_CycleDetection tests that the change log refuses a second
// constraint for the same prerequisite object
func TestCookie_CycleDetection(t *testing.T) {
	r := testResolver()
	parent := descriptor("com.acme.app", "1.0.0")
	prereq := requires("com.acme.lib", "", "")

	ck := newCookie()
	assert.True(t, ck.addChange(r.newConstraint(parent, prereq)))
	assert.False(t, ck.addChange(r.newConstraint(parent, prereq)),
		"same prerequisite object signals a loop")

	// An equal-looking but distinct prerequisite is fine.
	other := requires("com.acme.lib", "", "")
	assert.True(t, ck.addChange(r.newConstraint(parent, other)))
}
