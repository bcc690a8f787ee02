package console

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("console: aborted")
	// ErrNoControls is reported when an action needs a control but the form
	// is empty.
	ErrNoControls = errors.New("console: the form has no controls")
)
