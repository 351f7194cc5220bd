package dialog_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/dialog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDialogs pins down dialog.Dialogs' contract, in particular the "cancel
// returns a null-shaped result, not an error" boundary behavior (spec §8).
type fakeDialogs struct {
	cancelled bool
}

func (f *fakeDialogs) OpenFile(windowLabel string, opts dialog.OpenFileOptions) ([]string, error) {
	if f.cancelled {
		return nil, nil
	}
	return []string{"/tmp/a.txt"}, nil
}

func (f *fakeDialogs) SaveFile(windowLabel string, opts dialog.SaveFileOptions) (string, error) {
	if f.cancelled {
		return "", nil
	}
	return "/tmp/out.txt", nil
}

func (f *fakeDialogs) SelectFolder(windowLabel string, opts dialog.SelectFolderOptions) (string, error) {
	if f.cancelled {
		return "", nil
	}
	return "/tmp", nil
}

func (f *fakeDialogs) Confirm(windowLabel, title, message string) (bool, error) {
	return !f.cancelled, nil
}

func (f *fakeDialogs) Prompt(windowLabel, title, message, defaultValue string) (string, bool, error) {
	if f.cancelled {
		return "", false, nil
	}
	return "typed", true, nil
}

func (f *fakeDialogs) Message(windowLabel, title, message string) error { return nil }

var _ dialog.Dialogs = (*fakeDialogs)(nil)

func TestCancelledOpenFileReturnsNilNotError(t *testing.T) {
	d := &fakeDialogs{cancelled: true}
	paths, err := d.OpenFile("main", dialog.OpenFileOptions{})
	require.NoError(t, err)
	assert.Nil(t, paths)
}

func TestCancelledPromptReportsNotOK(t *testing.T) {
	d := &fakeDialogs{cancelled: true}
	_, ok, err := d.Prompt("main", "t", "m", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmedSelectFolderReturnsPath(t *testing.T) {
	d := &fakeDialogs{}
	path, err := d.SelectFolder("main", dialog.SelectFolderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp", path)
}
