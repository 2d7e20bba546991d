package sim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Stock values mirror config.Default.

func stockCarousel() CarouselParams {
	return CarouselParams{
		Acceleration: 0.005,
		MaxVelocity:  1.5,
		SpinRate:     0.5,
		Scale:        0.01,
		Flatten:      -90,
	}
}

func stockCamera() CameraParams {
	return CameraParams{
		Speed:       0.05,
		Sensitivity: 0.1,
		Radius:      3.0,
		MinY:        0.2,
		MaxY:        4.0,
	}
}

func stockRiders() []RiderSlot {
	return []RiderSlot{
		{Mesh: 0, Offset: mgl32.Vec3{14, 182.5, 150}, Phase: 0},
		{Mesh: 1, Offset: mgl32.Vec3{14, 120.5, 150}, Phase: math32.Pi},
	}
}
