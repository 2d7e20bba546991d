// Package audio plays the carousel organ loop. Its volume follows the carousel's spin.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/carousel-viewer/internal/logger"
)

// DefaultSampleRate is the speaker output rate.
const DefaultSampleRate = beep.SampleRate(44100)

// silentDb is used for volumes at or below zero.
const silentDb = -100

var errNotInitialized = errors.New("audio not initialized")

// Manager owns the speaker and the looping music track.
type Manager struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate

	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
	path   string

	master float64 // 0..1
	speed  float64 // 0..1, carousel velocity over its maximum
	muted  bool
}

// New creates a stopped manager with the given master volume.
func New(master float64) *Manager {
	return &Manager{master: clamp(master, 0, 1)}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	m.initialized = true
	return nil
}

// Close stops playback and releases the track.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.release()
	speaker.Close()
	m.initialized = false
}

// PlayLoop decodes WAV data and loops it forever, replacing any current track.
func (m *Manager) PlayLoop(data []byte, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return errNotInitialized
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		out = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}

	speaker.Clear()
	m.release()

	m.stream = streamer
	m.path = path
	m.ctrl = &beep.Ctrl{Streamer: &loopStreamer{source: streamer, out: out}}
	m.volume = &effects.Volume{Streamer: m.ctrl, Base: 10}
	m.applyVolume()
	speaker.Play(m.volume)

	logger.Info("music started",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Duration("length", format.SampleRate.D(streamer.Len())),
	)
	return nil
}

func (m *Manager) release() {
	if m.stream != nil {
		m.stream.Close()
	}
	m.stream, m.ctrl, m.volume, m.path = nil, nil, nil, ""
}

// SetSpeed sets the spin fraction the music volume follows.
func (m *Manager) SetSpeed(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fraction = clamp(fraction, 0, 1)
	if fraction == m.speed {
		return
	}
	m.speed = fraction
	m.applyVolume()
}

// SetMuted silences or restores the music.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.applyVolume()
}

// Muted reports whether music is muted.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// Level returns the effective linear volume.
func (m *Manager) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level()
}

func (m *Manager) level() float64 {
	if m.muted {
		return 0
	}
	return m.master * m.speed
}

// applyVolume pushes the current level into the playing stream. Caller holds mu.
func (m *Manager) applyVolume() {
	if m.volume == nil {
		return
	}
	lvl := m.level()
	speaker.Lock()
	m.volume.Silent = lvl <= 0
	m.volume.Volume = volumeToDb(lvl) / 20
	speaker.Unlock()
}

// volumeToDb converts a linear 0..1 volume to decibels.
func volumeToDb(v float64) float64 {
	if v <= 0 {
		return silentDb
	}
	return 20 * math.Log10(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// loopStreamer restarts its source when it runs dry.
type loopStreamer struct {
	source beep.StreamSeeker
	out    beep.Streamer // source, possibly resampled
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.out.Stream(samples[filled:])
		filled += n
		if ok && n > 0 {
			continue
		}
		if l.source.Len() == 0 {
			return filled, filled > 0
		}
		if err := l.source.Seek(0); err != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
