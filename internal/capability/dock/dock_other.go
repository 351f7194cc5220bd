//go:build windows || linux

package dock

type unsupportedDock struct{}

// New returns the platform dock backend. Windows and Linux have no dock
// concept, so every operation reports kind=Unsupported.
func New() Dock { return &unsupportedDock{} }

func (unsupportedDock) SetBadge(text string) error   { return errUnsupported("setBadge") }
func (unsupportedDock) SetIcon(imagePath string) error { return errUnsupported("setIcon") }
func (unsupportedDock) SetMenu(menu []MenuItem) error { return errUnsupported("setMenu") }
func (unsupportedDock) Bounce(critical bool) error   { return errUnsupported("bounce") }
