// Package anim schedules the reveal animation: ribbons appear one by
// one on a timer, with transport controls for playback.
//
// The sequencer owns only the reveal index. It does not redraw
// anything; hosts poll [Sequencer.Index] (or watch
// [observability.AnimationHooks]) and re-render the scene with the
// current count of visible ribbons.
//
// At most one timer runs per sequencer. Play starts it, Pause and
// Reset cancel it, and advancing past the last ribbon stops it and
// parks the sequencer in [Complete].
package anim

import (
	"context"
	"sync"
	"time"

	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/observability"
)

// State is the sequencer's transport state.
type State int

const (
	// Idle means playback has not started; the index sits at 0.
	Idle State = iota
	// Playing means the timer is live and the index is advancing.
	Playing
	// Paused means playback stopped partway; the index is frozen.
	Paused
	// Complete means every ribbon is revealed and the timer is stopped.
	Complete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Sequencer steps a reveal index from 0 to total on a cancellable
// timer. All methods are safe for concurrent use.
type Sequencer struct {
	mu     sync.Mutex
	cfg    config.Config
	total  int
	index  int
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSequencer builds an idle sequencer over total ribbons.
func NewSequencer(total int, cfg config.Config) *Sequencer {
	return &Sequencer{
		cfg:   cfg.Normalize(),
		total: max(total, 0),
	}
}

// Index returns the number of ribbons currently revealed.
func (s *Sequencer) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Total returns the reveal target.
func (s *Sequencer) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// State returns the current transport state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetConfig swaps the pacing config. A running timer picks the new
// pacing up on its next step.
func (s *Sequencer) SetConfig(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg.Normalize()
}

// SetTotal resizes the reveal target, clamping the index into range.
// A shrink below the current index completes the reveal.
func (s *Sequencer) SetTotal(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = max(total, 0)
	if s.index > s.total {
		s.index = s.total
	}
	if s.state == Playing && s.index >= s.total {
		s.finishLocked()
	}
}

// Play starts or resumes playback. From Complete it rewinds to 0
// first, so play always yields a full reveal. Playing again while
// already playing is a no-op.
func (s *Sequencer) Play() {
	s.mu.Lock()
	if s.state == Playing {
		s.mu.Unlock()
		return
	}
	if s.state == Complete {
		s.index = 0
		s.emitFrameLocked()
	}
	if s.index >= s.total {
		s.toStateLocked(Complete)
		s.mu.Unlock()
		return
	}
	s.toStateLocked(Playing)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	first := FirstFrameDelay(s.cfg)
	done := s.done
	s.mu.Unlock()

	go s.run(ctx, done, first)
}

// Pause freezes the index and cancels the timer, waiting until it has
// fully stopped. Pausing a non-playing sequencer is a no-op.
func (s *Sequencer) Pause() {
	s.mu.Lock()
	if s.state != Playing {
		s.mu.Unlock()
		return
	}
	s.toStateLocked(Paused)
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// StepForward reveals one more ribbon without starting the timer.
// Stepping while playing is ignored; the timer owns the index then.
func (s *Sequencer) StepForward() {
	s.step(+1)
}

// StepBack hides the most recently revealed ribbon without starting
// the timer.
func (s *Sequencer) StepBack() {
	s.step(-1)
}

func (s *Sequencer) step(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		return
	}
	next := min(max(s.index+delta, 0), s.total)
	if next == s.index {
		return
	}
	s.index = next
	s.emitFrameLocked()
	switch {
	case s.index >= s.total:
		s.toStateLocked(Complete)
	default:
		s.toStateLocked(Paused)
	}
}

// Reset stops playback and rewinds to the hidden state.
func (s *Sequencer) Reset() {
	s.stopTimer()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.emitFrameLocked()
	s.toStateLocked(Idle)
}

// Close releases the timer. The sequencer keeps its index and may be
// played again.
func (s *Sequencer) Close() error {
	s.stopTimer()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Playing {
		s.toStateLocked(Paused)
	}
	return nil
}

func (s *Sequencer) stopTimer() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (s *Sequencer) run(ctx context.Context, done chan struct{}, first time.Duration) {
	defer close(done)
	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			delay, more := s.advance()
			if !more {
				return
			}
			timer.Reset(delay)
		}
	}
}

// advance moves the index one step and reports the delay before the
// next one. It re-checks the state under the lock: a pause that raced
// the timer fire must not produce a step.
func (s *Sequencer) advance() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Playing {
		return 0, false
	}
	if s.index < s.total {
		s.index++
		s.emitFrameLocked()
	}
	if s.index >= s.total {
		s.finishLocked()
		return 0, false
	}
	return StepDelay(s.cfg), true
}

// finishLocked parks the sequencer in Complete and detaches the timer
// handles. The goroutine exits on its own; nothing waits on it here.
func (s *Sequencer) finishLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel, s.done = nil, nil
	}
	s.toStateLocked(Complete)
}

func (s *Sequencer) toStateLocked(next State) {
	if s.state == next {
		return
	}
	prev := s.state
	s.state = next
	observability.Animation().OnStateChange(context.Background(), prev.String(), next.String())
}

func (s *Sequencer) emitFrameLocked() {
	observability.Animation().OnFrame(context.Background(), s.index, s.total)
}
