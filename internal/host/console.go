package host

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// ConsoleWindow is a headless Window that writes one JSON line per signal.
type ConsoleWindow struct {
	label string

	mu          sync.Mutex
	w           io.Writer
	ignoreMouse bool
}

// consoleLine is the JSON shape written by ConsoleWindow.
type consoleLine struct {
	Window  string    `json:"window"`
	Signal  string    `json:"signal"`
	Payload any       `json:"payload"`
	Time    time.Time `json:"time"`
}

// NewConsoleWindow creates a console window labelled label.
func NewConsoleWindow(label string, w io.Writer) *ConsoleWindow {
	return &ConsoleWindow{label: label, w: w}
}

// Label returns the window label.
func (c *ConsoleWindow) Label() string {
	return c.label
}

// Emit writes the signal as a JSON line.
func (c *ConsoleWindow) Emit(signal string, payload any) error {
	data, err := json.Marshal(consoleLine{
		Window:  c.label,
		Signal:  signal,
		Payload: payload,
		Time:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	data = append(data, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.w.Write(data)
	return err
}

// SetIgnoreCursorEvents records the click-through state.
func (c *ConsoleWindow) SetIgnoreCursorEvents(ignore bool) error {
	c.mu.Lock()
	c.ignoreMouse = ignore
	c.mu.Unlock()
	return nil
}

// IgnoresCursorEvents reports the click-through state.
func (c *ConsoleWindow) IgnoresCursorEvents() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ignoreMouse
}

// WindowSet is a fixed Windows registry.
type WindowSet map[string]Window

// Lookup implements Windows.
func (s WindowSet) Lookup(label string) (Window, bool) {
	w, ok := s[label]
	return w, ok
}
