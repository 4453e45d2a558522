package render

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Sink is the output boundary. Show must accept the full frame and return
// once it is queued for hardware transfer; the core never assumes more than
// "queued".
type Sink interface {
	Show(frame Buffer) error
}

// SchedulerConfig holds frame-loop configuration.
type SchedulerConfig struct {
	// FrameRate is ticks per second; the frame budget is its reciprocal.
	FrameRate int
	// ChaseDelayFrames is the strip-2 delay for the Chase sync mode.
	ChaseDelayFrames int
}

// DefaultSchedulerConfig matches the reference hardware: 120 fps, six-frame
// chase delay.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		FrameRate:        120,
		ChaseDelayFrames: DefaultChaseDelayFrames,
	}
}

// Scheduler drives one full render pass per tick: snapshot intake, transition
// advance, one output frame, hand-off to the sink. It owns RenderState
// exclusively; all mutation funnels through ApplyTransition/ApplyImmediate or
// the per-frame snapshot intake.
type Scheduler struct {
	mu sync.Mutex

	sink Sink

	// engA renders the visible configuration; engB renders the target pass
	// while a transition is blending. They swap on completion so the target's
	// chase history survives the promotion.
	engA *Engine
	engB *Engine

	trans *Transition
	state RenderState

	// snapshot is the cross-context handoff from the input layer: producer
	// stores, render loop swaps out at most one per frame. Never torn, never
	// blocking on either side.
	snapshot atomic.Pointer[ParameterSnapshot]

	// pending holds a snapshot that arrived mid-transition; it applies when
	// the blend completes.
	pending *RenderState

	out    Buffer
	bufSrc Buffer
	bufTgt Buffer

	start    time.Time
	frame    uint64
	budget   time.Duration
	tickRate time.Duration

	overruns       atomic.Uint64
	framesShown    atomic.Uint64
	lastOverrunLog time.Time

	// onFrame observes each finished frame (e.g. the preview publisher). The
	// buffer is reused next tick; observers must copy what they keep.
	onFrame func(frame Buffer, state RenderState)

	stopChan chan struct{}
	running  bool
}

// NewScheduler allocates all buffers and engines up front; nothing in the
// per-tick path allocates after this returns.
func NewScheduler(cfg SchedulerConfig, sink Sink) *Scheduler {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 120
	}
	if cfg.ChaseDelayFrames <= 0 {
		cfg.ChaseDelayFrames = DefaultChaseDelayFrames
	}
	tick := time.Second / time.Duration(cfg.FrameRate)
	return &Scheduler{
		sink:     sink,
		engA:     NewEngine(cfg.ChaseDelayFrames),
		engB:     NewEngine(cfg.ChaseDelayFrames),
		trans:    NewTransition(),
		state:    DefaultState(),
		out:      NewBuffer(TotalPixels),
		bufSrc:   NewBuffer(TotalPixels),
		bufTgt:   NewBuffer(TotalPixels),
		budget:   tick,
		tickRate: tick,
		start:    time.Now(),
		stopChan: make(chan struct{}),
	}
}

// SetFrameObserver installs the per-frame observer. Call before Start.
func (s *Scheduler) SetFrameObserver(fn func(frame Buffer, state RenderState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// Start launches the frame loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.start = time.Now()
	s.mu.Unlock()

	go s.loop()
}

// Stop halts the frame loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()
}

// IsRunning reports whether the frame loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			s.RenderTick(now)
		}
	}
}

// SubmitSnapshot delivers a new parameter snapshot from the input layer. It
// never blocks; if the core has not consumed the previous snapshot yet, the
// newer one replaces it.
func (s *Scheduler) SubmitSnapshot(snap ParameterSnapshot) {
	s.snapshot.Store(&snap)
}

// CaptureState returns everything needed to reproduce the currently visible
// output. During a blend this is the interpolated configuration, so a
// capture-then-apply round trip does not jump.
func (s *Scheduler) CaptureState() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trans.Active() {
		return s.trans.VisibleState()
	}
	return s.state
}

// State returns the committed render state (ignoring any in-flight blend).
func (s *Scheduler) State() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TransitionActive reports whether a blend is in flight and its progress.
func (s *Scheduler) TransitionActive() (bool, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trans.Active(), s.trans.Progress()
}

// ApplyImmediate switches to target instantly, skipping the blend machine.
func (s *Scheduler) ApplyImmediate(target RenderState) {
	target.Sanitize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyImmediateLocked(target)
}

func (s *Scheduler) applyImmediateLocked(target RenderState) {
	s.state = target
	s.pending = nil
	s.trans.reset()
}

// ApplyTransition blends from the current configuration to target. A
// non-positive duration or a self-targeted request degrades to an immediate
// apply; a request during an active blend supersedes it, anchored at the
// currently visible configuration.
func (s *Scheduler) ApplyTransition(target RenderState, spec TransitionSpec) {
	target.Sanitize()
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec.Duration <= 0 {
		s.applyImmediateLocked(target)
		return
	}
	if s.trans.Active() {
		if target == s.trans.Target() {
			return
		}
		s.trans.Cancel(target, spec)
		return
	}
	if target == s.state {
		s.applyImmediateLocked(target)
		return
	}
	s.engB.ResetChase()
	s.trans.Begin(s.state, target, spec)
}

// RenderTick runs one full frame pass at wall-clock time now and hands the
// result to the sink. The public entry point exists so tests and simulators
// can drive the scheduler without the ticker goroutine.
func (s *Scheduler) RenderTick(now time.Time) {
	s.mu.Lock()
	ft := FrameTimeAt(s.start, now, s.frame)
	s.frame++

	if snap := s.snapshot.Swap(nil); snap != nil {
		st := snap.State()
		st.Sanitize()
		if s.trans.Active() {
			s.pending = &st
		} else {
			s.state = st
		}
	}

	if s.trans.Active() {
		done := s.trans.Step(ft, s.engA, s.engB, s.bufSrc, s.bufTgt, s.out)
		if done {
			s.state = s.trans.Target()
			if s.trans.Type() != TransitionMorph {
				s.engA, s.engB = s.engB, s.engA
			}
			s.trans.reset()
			if s.pending != nil {
				s.state = *s.pending
				s.pending = nil
			}
		}
	} else {
		s.engA.RenderFrame(&s.state, ft, s.out)
	}

	observer := s.onFrame
	state := s.state
	s.mu.Unlock()

	// Budget accounting happens after the fact; the finished buffer is
	// always emitted whole.
	if elapsed := time.Since(now); elapsed > s.budget {
		s.overruns.Add(1)
		if time.Since(s.lastOverrunLog) > 5*time.Second {
			s.lastOverrunLog = time.Now()
			log.Printf("frame budget overrun: pass took %v (budget %v, total overruns %d)",
				elapsed, s.budget, s.overruns.Load())
		}
	}

	if s.sink != nil {
		if err := s.sink.Show(s.out); err != nil {
			log.Printf("output sink error: %v", err)
		}
	}
	s.framesShown.Add(1)

	if observer != nil {
		observer(s.out, state)
	}
}

// FrameCount returns the number of frames handed to the sink.
func (s *Scheduler) FrameCount() uint64 { return s.framesShown.Load() }

// Overruns returns the number of frames that exceeded the budget. External
// telemetry reads this as a degrade signal; the core only counts.
func (s *Scheduler) Overruns() uint64 { return s.overruns.Load() }

// Budget returns the per-frame time budget.
func (s *Scheduler) Budget() time.Duration { return s.budget }
