package sdlinput

import (
	"fmt"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/BrandonKowalski/backstack/pkg/backstack/internal"
)

var (
	controllersMu sync.Mutex
	controllers   = map[sdl.JoystickID]*sdl.GameController{}
)

// Init starts the SDL event and game controller subsystems and opens every
// connected controller. Pump must be called from the same OS thread.
func Init() error {
	if err := sdl.Init(sdl.INIT_EVENTS | sdl.INIT_GAMECONTROLLER | sdl.INIT_JOYSTICK); err != nil {
		return fmt.Errorf("sdlinput: init: %w", err)
	}

	for i := 0; i < sdl.NumJoysticks(); i++ {
		openController(i)
	}
	return nil
}

// Quit closes every open controller and shuts SDL down.
func Quit() {
	controllersMu.Lock()
	for id, c := range controllers {
		c.Close()
		delete(controllers, id)
	}
	controllersMu.Unlock()

	sdl.Quit()
}

func openController(index int) {
	if !sdl.IsGameController(index) {
		return
	}

	c := sdl.GameControllerOpen(index)
	if c == nil {
		internal.GetInternalLogger().Warn("Unable to open game controller", "index", index, "error", sdl.GetError())
		return
	}

	id := c.Joystick().InstanceID()

	controllersMu.Lock()
	defer controllersMu.Unlock()
	if _, ok := controllers[id]; ok {
		c.Close()
		return
	}
	controllers[id] = c
	internal.GetInternalLogger().Debug("Game controller opened", "name", c.Name(), "id", id)
}

func closeController(id sdl.JoystickID) {
	controllersMu.Lock()
	defer controllersMu.Unlock()

	if c, ok := controllers[id]; ok {
		c.Close()
		delete(controllers, id)
		internal.GetInternalLogger().Debug("Game controller removed", "id", id)
	}
}
