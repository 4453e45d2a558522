package preset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
	"github.com/lightwaveos/lightwave-go/internal/database/repositories"
	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/internal/services/pubsub"
)

// PlaybackStatus describes the current sequence playback position.
type PlaybackStatus struct {
	SequenceID  string `json:"sequenceId"`
	IsPlaying   bool   `json:"isPlaying"`
	StepIndex   int    `json:"stepIndex"`
	StepCount   int    `json:"stepCount"`
	Loop        bool   `json:"loop"`
	LastUpdated string `json:"lastUpdated"`
}

// Player steps through a sequence, recalling each step's preset with its own
// transition and holding it for the step's dwell time. One sequence plays at
// a time; starting another replaces it.
type Player struct {
	mu sync.Mutex

	seqRepo       *repositories.SequenceRepository
	presetService *Service
	pubsub        *pubsub.PubSub

	sequence  *models.Sequence
	stepIndex int
	playing   bool
	stepTimer *time.Timer
	// generation invalidates stale step timers after Stop or restart
	generation uint64
}

// NewPlayer creates a sequence player. pubsub may be nil in tests.
func NewPlayer(seqRepo *repositories.SequenceRepository, presetService *Service, ps *pubsub.PubSub) *Player {
	return &Player{
		seqRepo:       seqRepo,
		presetService: presetService,
		pubsub:        ps,
	}
}

// Start begins playback of a sequence from its first step.
func (p *Player) Start(ctx context.Context, sequenceID string) error {
	seq, err := p.seqRepo.FindByID(ctx, sequenceID)
	if err != nil {
		return err
	}
	if seq == nil {
		return fmt.Errorf("sequence not found: %s", sequenceID)
	}
	if len(seq.Steps) == 0 {
		return fmt.Errorf("sequence is empty: %s", sequenceID)
	}

	p.mu.Lock()
	p.stopLocked()
	p.sequence = seq
	p.stepIndex = 0
	p.playing = true
	gen := p.generation
	p.mu.Unlock()

	p.runStep(gen, 0)
	return nil
}

// Stop halts playback, leaving the currently applied preset on the strips.
func (p *Player) Stop() {
	p.mu.Lock()
	wasPlaying := p.playing
	p.stopLocked()
	p.mu.Unlock()

	if wasPlaying {
		p.publishStatus()
	}
}

// stopLocked cancels the pending step timer and bumps the generation so any
// in-flight timer callback becomes a no-op. Caller holds p.mu.
func (p *Player) stopLocked() {
	if p.stepTimer != nil {
		p.stepTimer.Stop()
		p.stepTimer = nil
	}
	p.playing = false
	p.generation++
}

// Status returns the current playback position.
func (p *Player) Status() PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	status := PlaybackStatus{
		IsPlaying:   p.playing,
		StepIndex:   p.stepIndex,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	if p.sequence != nil {
		status.SequenceID = p.sequence.ID
		status.StepCount = len(p.sequence.Steps)
		status.Loop = p.sequence.Loop
	}
	return status
}

// runStep applies step idx and schedules the advance to the next one.
func (p *Player) runStep(gen uint64, idx int) {
	p.mu.Lock()
	if !p.playing || gen != p.generation || p.sequence == nil || idx >= len(p.sequence.Steps) {
		p.mu.Unlock()
		return
	}
	step := p.sequence.Steps[idx]
	p.stepIndex = idx
	p.mu.Unlock()

	spec := render.TransitionSpec{
		Type:     render.ParseTransitionType(step.TransitionType),
		Duration: time.Duration(step.TransitionMs) * time.Millisecond,
	}
	if _, err := p.presetService.Apply(context.Background(), step.PresetID, &spec); err != nil {
		// A deleted preset stops playback rather than skipping silently
		p.Stop()
		return
	}

	p.publishStatus()

	dwell := time.Duration(step.TransitionMs+step.HoldMs) * time.Millisecond
	p.mu.Lock()
	if !p.playing || gen != p.generation {
		p.mu.Unlock()
		return
	}
	p.stepTimer = time.AfterFunc(dwell, func() {
		p.advance(gen, idx)
	})
	p.mu.Unlock()
}

// advance moves to the step after idx, honoring the loop flag.
func (p *Player) advance(gen uint64, idx int) {
	p.mu.Lock()
	if !p.playing || gen != p.generation || p.sequence == nil {
		p.mu.Unlock()
		return
	}
	next := idx + 1
	if next >= len(p.sequence.Steps) {
		if !p.sequence.Loop {
			p.stopLocked()
			p.mu.Unlock()
			p.publishStatus()
			return
		}
		next = 0
	}
	p.mu.Unlock()

	p.runStep(gen, next)
}

func (p *Player) publishStatus() {
	if p.pubsub == nil {
		return
	}
	status := p.Status()
	p.pubsub.Publish(pubsub.TopicSequencePlayback, status.SequenceID, status)
}
