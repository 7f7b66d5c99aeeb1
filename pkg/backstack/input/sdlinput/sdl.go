// Package sdlinput maps SDL2 keyboard and game controller events onto
// virtual buttons and forwards back presses to the history host.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/backstack/pkg/backstack/constants"
	"github.com/BrandonKowalski/backstack/pkg/backstack/input"
	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
)

// Mapping binds SDL keys and controller buttons to virtual buttons.
type Mapping struct {
	Keyboard   map[sdl.Keycode]constants.VirtualButton
	Controller map[uint8]constants.VirtualButton
}

// DefaultMapping binds Escape and Backspace to back, Return to confirm, and
// the controller face buttons using the given layout.
func DefaultMapping(flipFaceButtons bool) Mapping {
	south, east := input.FaceButtons(flipFaceButtons)
	west, north := constants.VirtualButtonY, constants.VirtualButtonX
	if flipFaceButtons {
		west, north = constants.VirtualButtonX, constants.VirtualButtonY
	}
	return Mapping{
		Keyboard: map[sdl.Keycode]constants.VirtualButton{
			sdl.K_ESCAPE:    constants.VirtualButtonB,
			sdl.K_BACKSPACE: constants.VirtualButtonB,
			sdl.K_AC_BACK:   constants.VirtualButtonB,
			sdl.K_RETURN:    constants.VirtualButtonA,
			sdl.K_UP:        constants.VirtualButtonUp,
			sdl.K_DOWN:      constants.VirtualButtonDown,
			sdl.K_LEFT:      constants.VirtualButtonLeft,
			sdl.K_RIGHT:     constants.VirtualButtonRight,
		},
		Controller: map[uint8]constants.VirtualButton{
			uint8(sdl.CONTROLLER_BUTTON_A):          south,
			uint8(sdl.CONTROLLER_BUTTON_B):          east,
			uint8(sdl.CONTROLLER_BUTTON_X):          west,
			uint8(sdl.CONTROLLER_BUTTON_Y):          north,
			uint8(sdl.CONTROLLER_BUTTON_START):      constants.VirtualButtonStart,
			uint8(sdl.CONTROLLER_BUTTON_BACK):       constants.VirtualButtonSelect,
			uint8(sdl.CONTROLLER_BUTTON_GUIDE):      constants.VirtualButtonMenu,
			uint8(sdl.CONTROLLER_BUTTON_DPAD_UP):    constants.VirtualButtonUp,
			uint8(sdl.CONTROLLER_BUTTON_DPAD_DOWN):  constants.VirtualButtonDown,
			uint8(sdl.CONTROLLER_BUTTON_DPAD_LEFT):  constants.VirtualButtonLeft,
			uint8(sdl.CONTROLLER_BUTTON_DPAD_RIGHT): constants.VirtualButtonRight,
		},
	}
}

// Translate converts an SDL event into a virtual button event. Key repeats,
// unmapped keys and non-input events return nil.
func Translate(event sdl.Event, m Mapping) *input.Event {
	switch e := event.(type) {
	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return nil
		}
		button, ok := m.Keyboard[e.Keysym.Sym]
		if !ok {
			return nil
		}
		return &input.Event{Button: button, Pressed: e.State == sdl.PRESSED}

	case *sdl.ControllerButtonEvent:
		button, ok := m.Controller[e.Button]
		if !ok {
			return nil
		}
		return &input.Event{Button: button, Pressed: e.State == sdl.PRESSED}
	}
	return nil
}

// Handle forwards event to host if it is a back press and reports whether
// it was one.
func Handle(event sdl.Event, m Mapping, host input.Backer) bool {
	if !input.IsBack(Translate(event, m)) {
		return false
	}
	if err := host.Back(); err != nil {
		internal.GetInternalLogger().Error("Back gesture failed", "error", err)
	}
	return true
}

// Pump drains the SDL event queue, forwarding back presses to host. It
// returns true once a quit event has been seen. Call it once per frame from
// the thread that initialized SDL.
func Pump(host input.Backer, m Mapping) (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.ControllerDeviceEvent:
			switch e.Type {
			case sdl.CONTROLLERDEVICEADDED:
				openController(int(e.Which))
			case sdl.CONTROLLERDEVICEREMOVED:
				closeController(e.Which)
			}
		case *sdl.KeyboardEvent, *sdl.ControllerButtonEvent:
			Handle(event, m, host)
		}
	}
	return quit
}
