// Package ui draws mazes on a tcell terminal.
package ui

import "github.com/gdamore/tcell/v2"

// Screen is the subset of tcell.Screen the renderer and event loop need.
type Screen struct {
	screen tcell.Screen
}

// NewScreen opens the controlling terminal.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return Wrap(s)
}

// Wrap initializes s and wraps it. Tests pass a tcell simulation screen.
func Wrap(s tcell.Screen) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.HideCursor()
	s.Clear()
	return &Screen{screen: s}, nil
}

// Close hands the terminal back to the shell.
func (s *Screen) Close() {
	s.screen.Fini()
}

// PollEvent blocks until a key, resize or posted event arrives.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// PostEvent queues an event for PollEvent. It is safe to call from other goroutines.
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.screen.PostEvent(ev)
}

// Clear clears the screen buffer.
func (s *Screen) Clear() {
	s.screen.Clear()
}

// Show pushes pending changes to the terminal.
func (s *Screen) Show() {
	s.screen.Show()
}

// SetContent draws r at column x, row y.
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// Size returns the terminal size in columns and rows.
func (s *Screen) Size() (width, height int) {
	return s.screen.Size()
}

// Sync repaints every cell, used after a resize.
func (s *Screen) Sync() {
	s.screen.Sync()
}
