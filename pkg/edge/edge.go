// Package edge turns level-triggered key state into one-shot press events.
package edge

// Detector reports a rising edge: the first poll at which a held level becomes true.
// The zero value starts in the released state.
type Detector struct {
	held bool
}

// Update consumes the current level and returns true only on the released->pressed transition.
func (d *Detector) Update(level bool) bool {
	rising := level && !d.held
	d.held = level
	return rising
}

// Set tracks a fixed group of named bindings with one Detector each.
type Set[K comparable] struct {
	detectors map[K]*Detector
}

// NewSet creates a Set with a detector for every key.
func NewSet[K comparable](keys ...K) *Set[K] {
	s := &Set[K]{detectors: make(map[K]*Detector, len(keys))}
	for _, k := range keys {
		s.detectors[k] = &Detector{}
	}
	return s
}

// Update feeds the level of every tracked key and returns the keys that just went down.
// Keys missing from levels are treated as released.
func (s *Set[K]) Update(levels map[K]bool) map[K]bool {
	fired := make(map[K]bool)
	for k, d := range s.detectors {
		if d.Update(levels[k]) {
			fired[k] = true
		}
	}
	return fired
}
