package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParse tests parsing well-formed identifiers
func TestParse(t *testing.T) {
	id, err := Parse("2.1.3")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id.Major())
	assert.Equal(t, uint64(1), id.Minor())
	assert.Equal(t, uint64(3), id.Service())
	assert.Equal(t, "2.1.3", id.String())
}

// TestParse_PartialComponents tests that missing components default to zero
func TestParse_PartialComponents(t *testing.T) {
	id, err := Parse("3.2")
	require.NoError(t, err)
	assert.Equal(t, "3.2.0", id.String())

	id, err = Parse("4")
	require.NoError(t, err)
	assert.Equal(t, "4.0.0", id.String())
}

// TestParse_Malformed tests parse errors
func TestParse_Malformed(t *testing.T) {
	_, err := Parse("not-a-version")
	assert.Error(t, err)
}

// TestNew_Sentinel tests the sentinel fallback for empty and malformed input
func TestNew_Sentinel(t *testing.T) {
	assert.Equal(t, Sentinel, New("").String())
	assert.Equal(t, Sentinel, New("bogus").String())
	assert.Equal(t, "2.0.0", New("2.0.0").String())
}

// TestCompare tests the total ordering
func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0", "2.0.0", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Compare(MustParse(tt.a), MustParse(tt.b)),
			"Compare(%s, %s)", tt.a, tt.b)
	}
}

// TestGreaterThan tests strict ordering
func TestGreaterThan(t *testing.T) {
	assert.True(t, MustParse("1.2.3").GreaterThan(MustParse("1.2.2")))
	assert.False(t, MustParse("1.2.3").GreaterThan(MustParse("1.2.3")))
	assert.False(t, MustParse("1.2.3").GreaterThan(MustParse("1.2.4")))
}

// TestEquivalentTo tests the exact-match band: same major.minor, service >=
func TestEquivalentTo(t *testing.T) {
	tests := []struct {
		id, required string
		want         bool
	}{
		{"1.2.0", "1.2.0", true},
		{"1.2.5", "1.2.0", true},
		{"1.2.0", "1.2.5", false},
		{"1.3.0", "1.2.0", false},
		{"2.2.0", "1.2.0", false},
	}
	for _, tt := range tests {
		got := MustParse(tt.id).EquivalentTo(MustParse(tt.required))
		assert.Equal(t, tt.want, got, "%s equivalentTo %s", tt.id, tt.required)
	}
}

// TestCompatibleWith tests the compatible-match band: same major, >= required
func TestCompatibleWith(t *testing.T) {
	tests := []struct {
		id, required string
		want         bool
	}{
		{"1.2.0", "1.2.0", true},
		{"1.5.0", "1.2.0", true},
		{"1.2.9", "1.2.3", true},
		{"1.2.2", "1.2.3", false},
		{"1.1.0", "1.2.0", false},
		{"2.0.0", "1.2.0", false},
		{"0.9.0", "1.0.0", false},
	}
	for _, tt := range tests {
		got := MustParse(tt.id).CompatibleWith(MustParse(tt.required))
		assert.Equal(t, tt.want, got, "%s compatibleWith %s", tt.id, tt.required)
	}
}

// TestParse_CacheReuse tests that repeated parses return equal identifiers
func TestParse_CacheReuse(t *testing.T) {
	a := New("7.8.9")
	b := New("7.8.9")
	assert.True(t, a.Equal(b))
}
