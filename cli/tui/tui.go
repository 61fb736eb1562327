package tui

import "fmt"

// ViewInspect is the only view with an interactive mode.
const ViewInspect = "inspect"

// Run starts the TUI for the given view.
func Run(view string, data any) error {
	if !IsTUISupported(view) {
		return fmt.Errorf("TUI mode is not supported for %s", view)
	}
	return RunInspectTUI(data)
}

// IsTUISupported reports whether the view has an interactive mode.
func IsTUISupported(view string) bool {
	return view == ViewInspect
}
