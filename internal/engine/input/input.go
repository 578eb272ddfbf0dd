// Package input polls SDL2 events and tracks held keys.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Input collects events once per frame.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
	quit   bool
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update drains pending SDL events. It returns true once the user asked
// to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.quit
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.quit = true
		i.events = append(i.events, Event{Type: EventQuit})

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		key := e.Keysym.Scancode
		switch e.Type {
		case sdl.KEYDOWN:
			if e.Repeat == 0 {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: key})
			}
			i.held[key] = true
		case sdl.KEYUP:
			i.events = append(i.events, Event{Type: EventKeyUp, Key: key})
			delete(i.held, key)
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down during the last Update.
func (i *Input) IsKeyPressed(key sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether key is currently down.
func (i *Input) IsKeyHeld(key sdl.Scancode) bool {
	return i.held[key]
}
