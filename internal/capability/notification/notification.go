// Package notification implements the notification capability (spec
// §4.8): a toast with title/body/optional sound. Unsupported platform ->
// kind=Unsupported; permission denied by OS -> kind=PermissionDenied.
package notification

// Options is one notification to show.
type Options struct {
	Title string
	Body  string
	Sound bool
}

// Notifier is the per-platform backend.
type Notifier interface {
	Show(opts Options) error
}
