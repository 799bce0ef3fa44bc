// Package host is the boundary between the connection supervisor and the
// overlay shell.
//
// Commands mirrors the shell's command surface (start_server_connection,
// stop_server_connection, set_overlay_ignore_mouse, exit_app). The Forwarder
// drains lifecycle events into named window signals. Server exposes both over
// a local HTTP control API.
package host
