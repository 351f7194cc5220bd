package permission_test

import (
	"testing"

	"github.com/krema-build/krema/internal/permission"
	"github.com/stretchr/testify/assert"
)

func TestExactMatch(t *testing.T) {
	set := permission.NewSet([]string{"fs:read"})
	assert.True(t, set.Allows("fs:read"))
	assert.False(t, set.Allows("fs:write"))
}

func TestWildcardMatch(t *testing.T) {
	set := permission.NewSet([]string{"fs:*"})
	assert.True(t, set.Allows("fs:read"))
	assert.True(t, set.Allows("fs:write"))
	assert.False(t, set.Allows("fs:"))
	assert.False(t, set.Allows("clipboard:read"))
}

func TestCheckReturnsFirstMissing(t *testing.T) {
	set := permission.NewSet([]string{"fs:read"})
	missing, ok := set.Check([]string{"fs:read", "fs:write"})
	assert.False(t, ok)
	assert.Equal(t, "fs:write", missing)

	_, ok = set.Check([]string{"fs:read"})
	assert.True(t, ok)
}

// Property test mirroring spec §8's quantified invariant:
// matches(a, r) ⇔ a == r ∨ (a = "p:*" ∧ r = "p:" + rest ∧ rest ≠ "")
func TestMatchesInvariant(t *testing.T) {
	cases := []struct {
		allow    string
		required string
		want     bool
	}{
		{"shell:execute", "shell:execute", true},
		{"shell:execute", "shell:open", false},
		{"fs:*", "fs:read", true},
		{"fs:*", "fs:write", true},
		{"fs:*", "fs:", false},
		{"fs:*", "clipboard:read", false},
	}
	for _, c := range cases {
		set := permission.NewSet([]string{c.allow})
		assert.Equal(t, c.want, set.Allows(c.required), "allow=%s required=%s", c.allow, c.required)
	}
}
