package edge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_HeldKeyFiresOnce(t *testing.T) {
	var d Detector

	fired := 0
	for i := 0; i < 10; i++ {
		if d.Update(true) {
			fired++
		}
	}
	assert.Equal(t, 1, fired, "holding the key across polls must fire exactly once")
}

func TestDetector_PressReleasePress(t *testing.T) {
	var d Detector
	levels := []bool{false, true, true, false, false, true, false}
	want := []bool{false, true, false, false, false, true, false}

	for i, lvl := range levels {
		assert.Equal(t, want[i], d.Update(lvl), "poll %d", i)
	}
}

func TestSet_Update(t *testing.T) {
	s := NewSet("toggle", "next")

	fired := s.Update(map[string]bool{"toggle": true})
	assert.Equal(t, map[string]bool{"toggle": true}, fired)

	fired = s.Update(map[string]bool{"toggle": true, "next": true})
	assert.Equal(t, map[string]bool{"next": true}, fired)

	fired = s.Update(nil)
	assert.Empty(t, fired)

	fired = s.Update(map[string]bool{"toggle": true, "missing": true})
	assert.Equal(t, map[string]bool{"toggle": true}, fired, "untracked keys never fire")
}
