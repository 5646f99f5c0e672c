package devnet

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"dinorun/x/arcade/types"
)

const (
	DefaultTick       = 60 * time.Millisecond
	DefaultTrackWidth = 40

	playerColumn = 3
	jumpTicks    = 3
	minGap       = 6
)

// ErrRoundRunning is returned by Start while a round is in progress.
var ErrRoundRunning = errors.New("round already running")

// EngineConfig configures the terminal runner.
type EngineConfig struct {
	Tick  time.Duration `mapstructure:"tick"`
	Width int           `mapstructure:"width"`
	Seed  int64         `mapstructure:"seed"`
	// AutoJump jumps over every obstacle with the given miss rate (0..1).
	AutoJump bool    `mapstructure:"auto-jump"`
	MissRate float64 `mapstructure:"miss-rate"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{Tick: DefaultTick, Width: DefaultTrackWidth, Seed: 1}
}

// Frame is one rendered tick of a round.
type Frame struct {
	Score uint64
	Track string
}

// Engine is a one button runner: obstacles scroll towards the runner, a jump
// clears them and the score is the number of ticks survived.
type Engine struct {
	cfg    EngineConfig
	render func(Frame)

	mu      sync.Mutex
	rng     *rand.Rand
	running bool
	jump    chan struct{}
	stop    chan struct{}
}

var _ types.Engine = (*Engine)(nil)

// NewEngine returns an engine drawing every frame with render, which may be nil.
func NewEngine(cfg EngineConfig, render func(Frame)) *Engine {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Width <= playerColumn+minGap {
		cfg.Width = DefaultTrackWidth
	}
	return &Engine{
		cfg:    cfg,
		render: render,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		stop:   make(chan struct{}),
	}
}

// Start begins a round. onGameOver is called once, from the engine goroutine,
// with the final score.
func (e *Engine) Start(onGameOver func(score uint64)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrRoundRunning
	}
	select {
	case <-e.stop:
		return errors.New("engine closed")
	default:
	}
	e.running = true
	e.jump = make(chan struct{}, 1)
	go e.run(e.jump, onGameOver)
	return nil
}

// Jump requests a jump on the next tick.
func (e *Engine) Jump() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	select {
	case e.jump <- struct{}{}:
	default:
	}
}

// Running reports whether a round is in progress.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Close ends any round without reporting it.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.stop:
	default:
		close(e.stop)
	}
}

func (e *Engine) run(jump <-chan struct{}, onGameOver func(uint64)) {
	ticker := time.NewTicker(e.cfg.Tick)
	defer ticker.Stop()

	track := make([]bool, e.cfg.Width)
	var (
		score    uint64
		airborne int
		gap      int
	)

	for {
		select {
		case <-e.stop:
			e.finish()
			return
		case <-ticker.C:
		}

		copy(track, track[1:])
		track[len(track)-1] = false
		gap++
		if gap >= minGap && e.chance(0.35) {
			track[len(track)-1] = true
			gap = 0
		}

		if airborne > 0 {
			airborne--
		}
		select {
		case <-jump:
			if airborne == 0 {
				airborne = jumpTicks
			}
		default:
		}
		if e.cfg.AutoJump && airborne == 0 && track[playerColumn+1] && !e.chance(e.cfg.MissRate) {
			airborne = jumpTicks
		}

		if track[playerColumn] && airborne == 0 {
			e.draw(Frame{Score: score, Track: drawTrack(track, airborne, true)})
			e.finish()
			onGameOver(score)
			return
		}
		score++
		e.draw(Frame{Score: score, Track: drawTrack(track, airborne, false)})
	}
}

func (e *Engine) chance(p float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() < p
}

func (e *Engine) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

func (e *Engine) draw(f Frame) {
	if e.render != nil {
		e.render(f)
	}
}

func drawTrack(track []bool, airborne int, crashed bool) string {
	var sb strings.Builder
	sb.Grow(len(track))
	for i, obstacle := range track {
		switch {
		case i == playerColumn && crashed:
			sb.WriteByte('X')
		case i == playerColumn && airborne > 0:
			sb.WriteByte('^')
		case i == playerColumn:
			sb.WriteByte('@')
		case obstacle:
			sb.WriteByte('#')
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
