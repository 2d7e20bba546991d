package viewer

import (
	"fmt"

	"github.com/Faultbox/carousel-viewer/internal/sim"
)

// AppName is the window title prefix.
const AppName = "Carousel Viewer"

// Title describes the camera for the window title, e.g. "Carousel Viewer - mounted (rider 1)".
func Title(cam *sim.Camera) string {
	if cam.Mode == sim.Mounted {
		return fmt.Sprintf("%s - %s (rider %d)", AppName, cam.Mode, cam.Rider+1)
	}
	return fmt.Sprintf("%s - %s", AppName, cam.Mode)
}
