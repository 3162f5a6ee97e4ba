package anim

import (
	"time"

	"github.com/chordial/chordial/pkg/config"
)

// Frame pacing. Speed maps inverse-linearly onto the step delay up to
// speedKnee; past the knee each extra unit of speed buys only half a
// unit of delay reduction, so high speeds stay watchable.
const (
	speedKnee = 5.0

	// minFirstFrame keeps the opening beat visible even with very short
	// transitions.
	minFirstFrame = 300 * time.Millisecond
)

// StepDelay returns the pause between reveal steps. With fade
// transitions on, the delay never undercuts the fade itself, so a
// ribbon finishes fading in before the next one starts.
func StepDelay(cfg config.Config) time.Duration {
	speed := cfg.AnimationSpeed
	var ms float64
	if speed <= speedKnee {
		ms = 1000 / speed
	} else {
		ms = 1000 / (speedKnee + (speed-speedKnee)*0.5)
	}
	d := time.Duration(ms * float64(time.Millisecond))
	if cfg.FadeTransition {
		d = max(d, FadeDuration(cfg))
	}
	return d
}

// FadeDuration returns how long a single ribbon's fade-in runs.
func FadeDuration(cfg config.Config) time.Duration {
	ms := cfg.TransitionDuration * 0.4 / cfg.AnimationSpeed
	return time.Duration(ms * float64(time.Millisecond))
}

// FirstFrameDelay returns the stretched delay before the first ribbon
// appears, giving the viewer a beat to take in the empty circle.
func FirstFrameDelay(cfg config.Config) time.Duration {
	d := time.Duration(cfg.TransitionDuration * 0.5 * float64(time.Millisecond))
	return max(StepDelay(cfg), minFirstFrame, d)
}
