// Package input turns physical back presses into host back gestures.
//
// Sources translate device events into virtual buttons. When VirtualButtonB
// is pressed they call Backer.Back on the history host, which queues a
// notification for the nav.Manager. Sources never call the Manager directly,
// so they may run on their own goroutine.
package input

import "github.com/BrandonKowalski/backstack/pkg/backstack/constants"

// Backer is a host that can perform the user's back gesture.
// *memhistory.History satisfies it.
type Backer interface {
	Back() error
}

// Event is a device event translated into a virtual button.
type Event struct {
	Button  constants.VirtualButton
	Pressed bool
}

// IsBack reports whether ev is a press of the back button.
func IsBack(ev *Event) bool {
	return ev != nil && ev.Pressed && ev.Button == constants.VirtualButtonB
}

// FaceButtons returns the virtual buttons for the south and east face
// buttons. The default is the Nintendo-style swap (south is B); flipped
// layouts map them directly (south is A).
func FaceButtons(flip bool) (south, east constants.VirtualButton) {
	if flip {
		return constants.VirtualButtonA, constants.VirtualButtonB
	}
	return constants.VirtualButtonB, constants.VirtualButtonA
}
