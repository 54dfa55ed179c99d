// Package onboarding drives the first-launch walkthrough: a fixed sequence
// of slides advanced by upward swipe gestures, completed exactly once.
package onboarding

import (
	"context"
	"sync"

	"plania-client/internal/common/logger"
	"plania-client/internal/common/metrics"
)

// StepCount is the number of walkthrough slides.
const StepCount = 4

// SwipeThreshold is the vertical travel, in points, a release must exceed
// upward to count as an advance gesture.
const SwipeThreshold = -100

// Slide is the static content of one walkthrough screen.
type Slide struct {
	Title    string
	Subtitle string
	Accent   string
}

// Slides returns the walkthrough content in display order.
func Slides() [StepCount]Slide {
	return [StepCount]Slide{
		{Title: "Bienvenido a Plania", Subtitle: "La agenda digital para tu negocio", Accent: "Plania"},
		{Title: "Organiza tus citas", Subtitle: "Todas tus reservas en un solo lugar", Accent: "citas"},
		{Title: "Gestiona tu equipo", Subtitle: "Agrega a tu personal y reparte el trabajo", Accent: "equipo"},
		{Title: "Comienza ahora", Subtitle: "Desliza hacia arriba para empezar", Accent: "ahora"},
	}
}

// Completer persists the one-time completion flag.
type Completer interface {
	SetOnboardingCompleted(ctx context.Context) error
}

// Flow is the walkthrough state machine. The step index only moves forward;
// the final qualifying swipe fires completion exactly once.
type Flow struct {
	store Completer
	log   logger.Logger

	mu        sync.Mutex
	step      int
	completed bool
	onDone    func()
}

func NewFlow(store Completer, log logger.Logger, onDone func()) *Flow {
	return &Flow{
		store:  store,
		log:    log.WithFields(map[string]interface{}{"component": "onboarding"}),
		onDone: onDone,
	}
}

// Step returns the current slide index.
func (f *Flow) Step() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Completed reports whether the walkthrough has finished.
func (f *Flow) Completed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// Release handles the end of a drag gesture. translationY is the vertical
// travel since the gesture began, negative meaning upward. Releases that do
// not travel past the threshold snap back without advancing.
func (f *Flow) Release(ctx context.Context, translationY float64) {
	if translationY >= SwipeThreshold {
		return
	}

	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	if f.step < StepCount-1 {
		f.step++
		step := f.step
		f.mu.Unlock()
		metrics.FlowTransitionsTotal.WithLabelValues("onboarding", "advance").Inc()
		f.log.Debug("onboarding advanced", map[string]interface{}{"step": step})
		return
	}
	f.completed = true
	f.mu.Unlock()

	f.finish(ctx)
}

func (f *Flow) finish(ctx context.Context) {
	metrics.FlowTransitionsTotal.WithLabelValues("onboarding", "complete").Inc()
	if err := f.store.SetOnboardingCompleted(ctx); err != nil {
		// The user still moves on; the walkthrough will show again next
		// launch, which beats trapping them here.
		f.log.Warn("failed to persist onboarding completion", map[string]interface{}{"error": err.Error()})
	}
	if f.onDone != nil {
		f.onDone()
	}
}

// Skip jumps straight to completion from any slide.
func (f *Flow) Skip(ctx context.Context) {
	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		return
	}
	f.completed = true
	f.step = StepCount - 1
	f.mu.Unlock()

	f.finish(ctx)
}
