package host

// TitleBarStyle controls macOS window chrome (spec §6 manifest / §4.2);
// ignored on Windows and Linux, which have no equivalent native concept.
type TitleBarStyle string

const (
	TitleBarDefault     TitleBarStyle = "default"
	TitleBarHidden      TitleBarStyle = "hidden"
	TitleBarHiddenInset TitleBarStyle = "hidden-inset"
)

// ParseTitleBarStyle maps a manifest string to a TitleBarStyle, defaulting
// to TitleBarDefault for an empty or unrecognized value rather than
// failing startup over a cosmetic setting.
func ParseTitleBarStyle(s string) TitleBarStyle {
	switch TitleBarStyle(s) {
	case TitleBarHidden:
		return TitleBarHidden
	case TitleBarHiddenInset:
		return TitleBarHiddenInset
	default:
		return TitleBarDefault
	}
}
