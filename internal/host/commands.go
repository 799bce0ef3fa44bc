package host

import (
	"fmt"
	"log/slog"

	"github.com/rickgao/danmaku-overlay/internal/connection"
)

// Commands implements the shell command surface. Every method returns
// without waiting on the network.
type Commands struct {
	sup     connection.Supervisor
	windows Windows
	overlay string
	exit    func()
	logger  *slog.Logger
}

// NewCommands creates the command surface. exit is called by ExitApp.
func NewCommands(sup connection.Supervisor, windows Windows, overlay string, exit func(), logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if exit == nil {
		exit = func() {}
	}

	return &Commands{
		sup:     sup,
		windows: windows,
		overlay: overlay,
		exit:    exit,
		logger:  logger,
	}
}

// StartServerConnection replaces the current connection with one to url.
func (c *Commands) StartServerConnection(url string) (string, error) {
	id, err := c.sup.Start(url)
	if err != nil {
		return "", fmt.Errorf("%s: %w", CmdStartServerConnection, err)
	}
	return id, nil
}

// StopServerConnection terminates the current connection.
func (c *Commands) StopServerConnection() error {
	if err := c.sup.Stop(); err != nil {
		return fmt.Errorf("%s: %w", CmdStopServerConnection, err)
	}
	return nil
}

// SetOverlayIgnoreMouse toggles click-through on the overlay window.
func (c *Commands) SetOverlayIgnoreMouse(ignore bool) error {
	w, ok := c.windows.Lookup(c.overlay)
	if !ok {
		return fmt.Errorf("%s: %w: %q", CmdSetOverlayIgnoreMouse, ErrOverlayNotFound, c.overlay)
	}

	if err := w.SetIgnoreCursorEvents(ignore); err != nil {
		return fmt.Errorf("%s: %w", CmdSetOverlayIgnoreMouse, err)
	}

	c.logger.Info("overlay click-through changed", "window", c.overlay, "ignore", ignore)
	return nil
}

// ExitApp asks the application to shut down.
func (c *Commands) ExitApp() {
	c.logger.Info("exit requested")
	c.exit()
}

// Status reports the connection slot.
func (c *Commands) Status() connection.Status {
	return c.sup.Status()
}
