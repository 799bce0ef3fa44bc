package host

import "errors"

// Errors
var (
	ErrOverlayNotFound = errors.New("overlay window not found")
)

// Command names, as invoked by the shell.
const (
	CmdStartServerConnection = "start_server_connection"
	CmdStopServerConnection  = "stop_server_connection"
	CmdSetOverlayIgnoreMouse = "set_overlay_ignore_mouse"
	CmdExitApp               = "exit_app"
)

// Window is a shell window able to receive signals.
type Window interface {
	// Emit delivers a named signal with a JSON-encodable payload.
	Emit(signal string, payload any) error

	// SetIgnoreCursorEvents toggles mouse click-through.
	SetIgnoreCursorEvents(ignore bool) error
}

// Windows looks up shell windows by label.
type Windows interface {
	Lookup(label string) (Window, bool)
}

// StartRequest is the body of start_server_connection.
type StartRequest struct {
	URL string `json:"url"`
}

// StartResponse is returned by start_server_connection.
type StartResponse struct {
	ConnID string `json:"conn_id"`
}

// IgnoreMouseRequest is the body of set_overlay_ignore_mouse.
type IgnoreMouseRequest struct {
	Ignore bool `json:"ignore"`
}

// ErrorResponse is the body of a failed command.
type ErrorResponse struct {
	Error string `json:"error"`
}
