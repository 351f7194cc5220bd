package tray_test

import (
	"testing"

	"github.com/krema-build/krema/internal/capability/tray"
	"github.com/krema-build/krema/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTray pins down tray.Tray's contract: only one Create per process,
// clicks route back through the registered handler.
type fakeTray struct {
	created bool
	tooltip string
	menu    []tray.MenuItem
	onClick tray.ClickHandler
}

func (f *fakeTray) Create(iconPath, tooltip string, menu []tray.MenuItem, onClick tray.ClickHandler) error {
	if f.created {
		return errors.E(errors.HandlerFault, "already created")
	}
	f.created = true
	f.tooltip = tooltip
	f.menu = menu
	f.onClick = onClick
	return nil
}

func (f *fakeTray) SetTooltip(tooltip string) error {
	f.tooltip = tooltip
	return nil
}

func (f *fakeTray) SetMenu(menu []tray.MenuItem) error {
	f.menu = menu
	return nil
}

func (f *fakeTray) ShowMessage(title, body string) error { return nil }

func (f *fakeTray) Remove() error {
	f.created = false
	return nil
}

var _ tray.Tray = (*fakeTray)(nil)

func TestSecondCreateFails(t *testing.T) {
	ft := &fakeTray{}
	require.NoError(t, ft.Create("icon.png", "Krema", nil, nil))
	err := ft.Create("icon.png", "Krema", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.HandlerFault))
}

func TestMenuClickInvokesHandler(t *testing.T) {
	ft := &fakeTray{}
	var clicked string
	require.NoError(t, ft.Create("icon.png", "Krema", []tray.MenuItem{{ID: "quit", Label: "Quit"}}, func(id string) { clicked = id }))

	ft.onClick("quit")
	assert.Equal(t, "quit", clicked)
}

func TestRemoveAllowsRecreate(t *testing.T) {
	ft := &fakeTray{}
	require.NoError(t, ft.Create("icon.png", "Krema", nil, nil))
	require.NoError(t, ft.Remove())
	assert.NoError(t, ft.Create("icon.png", "Krema", nil, nil))
}
