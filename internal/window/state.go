package window

// Phase is the coarse lifecycle phase of a window (spec §4.7).
type Phase string

const (
	PhaseCreated  Phase = "Created"
	PhaseLoading  Phase = "Loading"
	PhaseReady    Phase = "Ready"
	PhaseClosing  Phase = "Closing"
	PhaseClosed   Phase = "Closed"
)

// State is the full observable state of one window: the coarse Phase plus
// whatever subset of {Minimized, Maximized, Fullscreen, Focused} applies
// once the window reaches Ready, plus position/size/visibility.
type State struct {
	Phase      Phase
	Title      string
	X, Y       int
	Width      int
	Height     int
	Minimized  bool
	Maximized  bool
	Fullscreen bool
	Focused    bool
	Visible    bool
}

// Options configures window creation (spec §6's [window] table plus
// per-call overrides from window:create).
type Options struct {
	Label       string // empty means the manager generates one
	Title       string
	Width       int
	Height      int
	MinWidth    int
	MinHeight   int
	Resizable   bool
	Fullscreen  bool
	Decorations bool
	AlwaysOnTop bool
	ParentLabel string // non-empty for a modal child (spec §4.7 showModal)
	TitleBarStyle string // default | hidden | hidden-inset (macOS only; spec §4.2)
}
