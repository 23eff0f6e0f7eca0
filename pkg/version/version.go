package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Sentinel is the identifier substituted for missing or malformed versions.
const Sentinel = "1.0.0"

// parseCacheSize bounds the shared parse cache. Registries reuse a small set
// of version strings heavily, so even a modest cache absorbs nearly all
// repeat parses during a resolve pass.
const parseCacheSize = 512

var parseCache *lru.Cache[string, Identifier]

func init() {
	// Size is a constant > 0, so construction cannot fail.
	parseCache, _ = lru.New[string, Identifier](parseCacheSize)
}

// Identifier is a parsed plugin version.
//
// The zero value is not usable; obtain one through Parse, MustParse or New.
type Identifier struct {
	v *semver.Version
}

// Parse parses raw into an Identifier.
func Parse(raw string) (Identifier, error) {
	if id, ok := parseCache.Get(raw); ok {
		return id, nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Identifier{}, fmt.Errorf("version: parse %q: %w", raw, err)
	}
	id := Identifier{v: v}
	parseCache.Add(raw, id)
	return id, nil
}

// MustParse parses raw and panics on malformed input.
func MustParse(raw string) Identifier {
	id, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// New parses raw, substituting the 1.0.0 sentinel when raw is empty or
// malformed.
func New(raw string) Identifier {
	if raw == "" {
		return MustParse(Sentinel)
	}
	id, err := Parse(raw)
	if err != nil {
		return MustParse(Sentinel)
	}
	return id
}

// Major returns the major component.
func (id Identifier) Major() uint64 { return id.v.Major() }

// Minor returns the minor component.
func (id Identifier) Minor() uint64 { return id.v.Minor() }

// Service returns the service (third) component.
func (id Identifier) Service() uint64 { return id.v.Patch() }

// String renders the identifier in major.minor.service form.
func (id Identifier) String() string {
	if id.v == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", id.v.Major(), id.v.Minor(), id.v.Patch())
}

// Compare returns -1, 0 or 1 as id sorts before, equal to or after other.
func Compare(id, other Identifier) int {
	if id.v == nil && other.v == nil {
		return 0
	}
	if id.v == nil {
		return -1
	}
	if other.v == nil {
		return 1
	}
	return id.v.Compare(other.v)
}

// Equal reports whether id and other have identical components.
func (id Identifier) Equal(other Identifier) bool {
	return Compare(id, other) == 0
}

// GreaterThan reports whether id sorts strictly after other.
func (id Identifier) GreaterThan(other Identifier) bool {
	return Compare(id, other) > 0
}

// EquivalentTo reports whether id satisfies an exact-match requirement on
// required: same major and minor, service at least the required service.
func (id Identifier) EquivalentTo(required Identifier) bool {
	return id.Major() == required.Major() &&
		id.Minor() == required.Minor() &&
		id.Service() >= required.Service()
}

// CompatibleWith reports whether id satisfies a compatible-match requirement
// on required: same major, and id at least required overall.
func (id Identifier) CompatibleWith(required Identifier) bool {
	if id.Major() != required.Major() {
		return false
	}
	if id.Minor() != required.Minor() {
		return id.Minor() > required.Minor()
	}
	return id.Service() >= required.Service()
}
