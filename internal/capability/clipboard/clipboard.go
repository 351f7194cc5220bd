// Package clipboard implements the clipboard capability (spec §4.8):
// read/write text, detect text/image presence, enumerate formats. Writing
// is last-writer-wins; reading returns the current OS clipboard content at
// call time (testable property: writeText(x); readText() == x, modulo
// concurrent external writes).
package clipboard

// Clipboard is the per-platform backend; exactly one implementation is
// compiled in per GOOS.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
	HasText() (bool, error)
	HasImage() (bool, error)
	AvailableFormats() ([]string, error)
}
