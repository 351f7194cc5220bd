// Package dialog implements the dialogs capability (spec §4.8): open-file
// (single/multiple), save-file, select-folder, confirm, prompt, message.
// All are modal on the owning window; cancel returns a null-shaped result,
// never an error (spec §8 boundary behaviors).
package dialog

// OpenFileOptions configures an open-file dialog.
type OpenFileOptions struct {
	Title      string
	Multiple   bool
	Filters    []Filter // e.g. {Name: "Images", Extensions: []string{"png","jpg"}}
	StartDir   string
}

// Filter is one named extension group shown in the dialog's type picker.
type Filter struct {
	Name       string
	Extensions []string
}

// SaveFileOptions configures a save-file dialog.
type SaveFileOptions struct {
	Title           string
	DefaultFileName string
	Filters         []Filter
	StartDir        string
}

// SelectFolderOptions configures a folder picker.
type SelectFolderOptions struct {
	Title    string
	StartDir string
}

// Dialogs is the per-platform backend, invoked only from the UI thread
// (spec §5 "All window/webview/menu/clipboard/dialog/tray/notification
// calls must execute on that thread").
type Dialogs interface {
	// OpenFile returns the chosen paths, or nil if the user cancelled.
	OpenFile(windowLabel string, opts OpenFileOptions) ([]string, error)
	// SaveFile returns the chosen path, or "" if the user cancelled.
	SaveFile(windowLabel string, opts SaveFileOptions) (string, error)
	// SelectFolder returns the chosen path, or "" if the user cancelled.
	SelectFolder(windowLabel string, opts SelectFolderOptions) (string, error)
	// Confirm shows an OK/Cancel dialog and returns true iff OK was chosen.
	Confirm(windowLabel, title, message string) (bool, error)
	// Prompt shows a single-line text input dialog; ok is false if
	// cancelled.
	Prompt(windowLabel, title, message, defaultValue string) (value string, ok bool, err error)
	// Message shows an informational dialog with a single dismiss button.
	Message(windowLabel, title, message string) error
}
