package screen_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScreen pins down screen.Screen's contract: DisplayUnderCursor must
// always resolve to one of the entries Displays() reports.
type fakeScreen struct {
	displays []screen.Display
	cursor   screen.Point
	under    int
}

func (f *fakeScreen) Displays() ([]screen.Display, error) { return f.displays, nil }
func (f *fakeScreen) CursorPosition() (screen.Point, error) { return f.cursor, nil }
func (f *fakeScreen) DisplayUnderCursor() (screen.Display, error) {
	return f.displays[f.under], nil
}

var _ screen.Screen = (*fakeScreen)(nil)

func TestDisplayUnderCursorIsAmongDisplays(t *testing.T) {
	s := &fakeScreen{
		displays: []screen.Display{
			{Name: "Built-in", Frame: screen.Rect{Width: 1440, Height: 900}, Primary: true},
			{Name: "External", Frame: screen.Rect{X: 1440, Width: 1920, Height: 1080}},
		},
		cursor: screen.Point{X: 1600, Y: 200},
		under:  1,
	}

	all, err := s.Displays()
	require.NoError(t, err)
	require.Len(t, all, 2)

	here, err := s.DisplayUnderCursor()
	require.NoError(t, err)
	assert.Equal(t, "External", here.Name)
	assert.Contains(t, all, here)
}

func TestExactlyOnePrimaryDisplay(t *testing.T) {
	s := &fakeScreen{
		displays: []screen.Display{
			{Name: "Built-in", Primary: true},
			{Name: "External", Primary: false},
		},
	}
	all, err := s.Displays()
	require.NoError(t, err)

	primaryCount := 0
	for _, d := range all {
		if d.Primary {
			primaryCount++
		}
	}
	assert.Equal(t, 1, primaryCount)
}
