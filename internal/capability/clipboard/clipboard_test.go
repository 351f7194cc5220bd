package clipboard_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClipboard is an in-memory stand-in for the OS backend, used to pin
// down the contract (clipboard.go's Clipboard interface) independent of
// any real display server or pasteboard being available in CI.
type fakeClipboard struct {
	text    string
	hasText bool
}

func (f *fakeClipboard) WriteText(text string) error {
	f.text = text
	f.hasText = true
	return nil
}
func (f *fakeClipboard) ReadText() (string, error) { return f.text, nil }
func (f *fakeClipboard) HasText() (bool, error)    { return f.hasText, nil }
func (f *fakeClipboard) HasImage() (bool, error)   { return false, nil }
func (f *fakeClipboard) AvailableFormats() ([]string, error) {
	if f.hasText {
		return []string{"text/plain"}, nil
	}
	return nil, nil
}

var _ clipboard.Clipboard = (*fakeClipboard)(nil)

func TestWriteThenReadRoundTrips(t *testing.T) {
	c := &fakeClipboard{}
	require.NoError(t, c.WriteText("hello krema"))

	got, err := c.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "hello krema", got)

	hasText, err := c.HasText()
	require.NoError(t, err)
	assert.True(t, hasText)
}

func TestAvailableFormatsReflectsState(t *testing.T) {
	c := &fakeClipboard{}
	formats, err := c.AvailableFormats()
	require.NoError(t, err)
	assert.Empty(t, formats)

	require.NoError(t, c.WriteText("x"))
	formats, err = c.AvailableFormats()
	require.NoError(t, err)
	assert.Contains(t, formats, "text/plain")
}
