package updater

import "testing"

func TestIsNewer(t *testing.T) {
	cases := []struct {
		current, candidate string
		want               bool
	}{
		{"1.2.3", "1.2.4", true},
		{"1.2.3", "1.2.3", false},
		{"1.2.3", "1.2.2", false},
		{"1.9.0", "2.0.0", true},
		{"v1.0.0", "v1.0.1", true},
		{"1.0", "1.0.1", true},
		{"2.0.0", "1.9.9", false},
	}
	for _, c := range cases {
		got := isNewer(c.current, c.candidate)
		if got != c.want {
			t.Errorf("isNewer(%q, %q) = %v, want %v", c.current, c.candidate, got, c.want)
		}
	}
}
