package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeToDb(t *testing.T) {
	tests := []struct {
		vol  float64
		want float64
	}{
		{1.0, 0},
		{0.5, -6.0206},
		{0.1, -20},
		{0, silentDb},
		{-1, silentDb},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, volumeToDb(tt.vol), 1e-3, "vol %v", tt.vol)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, clamp(0.5, 0, 1))
	assert.Equal(t, 0.0, clamp(-1, 0, 1))
	assert.Equal(t, 1.0, clamp(2, 0, 1))
}

func TestLevelFollowsSpeed(t *testing.T) {
	m := New(0.8)
	assert.Equal(t, 0.0, m.Level(), "silent while the carousel is stopped")

	m.SetSpeed(0.5)
	assert.InDelta(t, 0.4, m.Level(), 1e-9)

	m.SetSpeed(3)
	assert.InDelta(t, 0.8, m.Level(), 1e-9)

	m.SetMuted(true)
	assert.True(t, m.Muted())
	assert.Equal(t, 0.0, m.Level())

	m.SetMuted(false)
	assert.False(t, m.Muted())
	assert.InDelta(t, 0.8, m.Level(), 1e-9)

	loud := New(2)
	loud.SetSpeed(1)
	assert.InDelta(t, 1.0, loud.Level(), 1e-9, "master volume clamps to 1")
}

func TestPlayLoopRequiresInit(t *testing.T) {
	m := New(1)
	assert.ErrorIs(t, m.PlayLoop(nil, "x.wav"), errNotInitialized)
	m.Close()
}

// counter streams 1, 2, ... n on the left channel.
type counter struct {
	pos, n int
}

func (c *counter) Stream(samples [][2]float64) (int, bool) {
	if c.pos >= c.n {
		return 0, false
	}
	i := 0
	for ; i < len(samples) && c.pos < c.n; i++ {
		c.pos++
		samples[i][0] = float64(c.pos)
	}
	return i, true
}

func (c *counter) Err() error    { return nil }
func (c *counter) Len() int      { return c.n }
func (c *counter) Position() int { return c.pos }
func (c *counter) Seek(p int) error {
	c.pos = p
	return nil
}

func TestLoopStreamerWraps(t *testing.T) {
	src := &counter{n: 3}
	l := &loopStreamer{source: src, out: src}

	buf := make([][2]float64, 7)
	n, ok := l.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 7, n)

	var got []float64
	for _, s := range buf {
		got = append(got, s[0])
	}
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3, 1}, got)
}

func TestLoopStreamerEmptySource(t *testing.T) {
	src := &counter{}
	l := &loopStreamer{source: src, out: src}
	n, ok := l.Stream(make([][2]float64, 4))
	assert.Equal(t, 0, n)
	assert.False(t, ok)
}
