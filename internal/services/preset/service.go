// Package preset provides preset capture, recall, and sequence playback.
package preset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
	"github.com/lightwaveos/lightwave-go/internal/database/repositories"
	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/internal/services/pubsub"
)

const (
	// MaxSlots is the number of addressable preset slot positions.
	MaxSlots = 16
	// LastStateKey is the settings key holding the last applied render state.
	LastStateKey = "last_state"
)

// Controller is the slice of the frame scheduler the preset layer drives.
type Controller interface {
	CaptureState() render.RenderState
	ApplyImmediate(target render.RenderState)
	ApplyTransition(target render.RenderState, spec render.TransitionSpec)
}

// Service manages preset storage and recall.
type Service struct {
	repo        *repositories.PresetRepository
	settingRepo *repositories.SettingRepository
	controller  Controller
	pubsub      *pubsub.PubSub
}

// NewService creates a new preset service. pubsub may be nil in tests.
func NewService(repo *repositories.PresetRepository, settingRepo *repositories.SettingRepository, controller Controller, ps *pubsub.PubSub) *Service {
	return &Service{
		repo:        repo,
		settingRepo: settingRepo,
		controller:  controller,
		pubsub:      ps,
	}
}

// List returns all presets ordered by slot position.
func (s *Service) List(ctx context.Context) ([]models.Preset, error) {
	return s.repo.FindAll(ctx)
}

// Get returns a preset by id, or nil if it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*models.Preset, error) {
	return s.repo.FindByID(ctx, id)
}

// SaveCurrent captures the currently visible render state into a named preset.
// Capturing mid-transition stores the blended state of that instant.
func (s *Service) SaveCurrent(ctx context.Context, name string, position int) (*models.Preset, error) {
	if name == "" {
		return nil, fmt.Errorf("preset name is required")
	}
	if position < 0 || position >= MaxSlots {
		return nil, fmt.Errorf("preset position %d out of range [0,%d)", position, MaxSlots)
	}

	preset := StateToPreset(s.controller.CaptureState())
	preset.Name = name
	preset.Position = position
	preset.TransitionType = string(render.TransitionCrossfade)
	preset.TransitionMs = 1000

	if err := s.repo.Create(ctx, &preset); err != nil {
		return nil, err
	}
	s.publishUpdate(preset.ID, "CREATED")
	return &preset, nil
}

// Apply recalls a preset through the transition engine. A nil spec uses the
// transition stored on the preset; zero duration applies instantly.
func (s *Service) Apply(ctx context.Context, id string, spec *render.TransitionSpec) (*models.Preset, error) {
	preset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if preset == nil {
		return nil, fmt.Errorf("preset not found: %s", id)
	}

	target := PresetToState(preset)
	effective := render.TransitionSpec{
		Type:     render.ParseTransitionType(preset.TransitionType),
		Duration: time.Duration(preset.TransitionMs) * time.Millisecond,
	}
	if spec != nil {
		effective = *spec
	}

	if effective.Duration <= 0 {
		s.controller.ApplyImmediate(target)
	} else {
		s.controller.ApplyTransition(target, effective)
	}

	if err := s.PersistLastState(ctx, target); err != nil {
		return nil, err
	}
	s.publishUpdate(preset.ID, "APPLIED")
	return preset, nil
}

// Update saves changes to a preset.
func (s *Service) Update(ctx context.Context, preset *models.Preset) error {
	if preset.Position < 0 || preset.Position >= MaxSlots {
		return fmt.Errorf("preset position %d out of range [0,%d)", preset.Position, MaxSlots)
	}
	if err := s.repo.Update(ctx, preset); err != nil {
		return err
	}
	s.publishUpdate(preset.ID, "UPDATED")
	return nil
}

// Delete removes a preset.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishUpdate(id, "DELETED")
	return nil
}

// stateRecord is the JSON shape persisted in the settings table. Wire names
// are used for the modes so the stored value survives enum reordering.
type stateRecord struct {
	EffectID    uint8  `json:"effectId"`
	PaletteID   uint8  `json:"paletteId"`
	Brightness  uint8  `json:"brightness"`
	Speed       uint8  `json:"speed"`
	Intensity   uint8  `json:"intensity"`
	Saturation  uint8  `json:"saturation"`
	Complexity  uint8  `json:"complexity"`
	Variation   uint8  `json:"variation"`
	Sync        string `json:"syncMode"`
	Propagation string `json:"propagationMode"`

	Strip2Enabled   bool  `json:"strip2Enabled"`
	Strip2EffectID  uint8 `json:"strip2EffectId"`
	Strip2PaletteID uint8 `json:"strip2PaletteId"`
}

// PersistLastState stores the state so it can be restored at next boot.
func (s *Service) PersistLastState(ctx context.Context, st render.RenderState) error {
	rec := stateRecord{
		EffectID:        st.EffectID,
		PaletteID:       st.PaletteID,
		Brightness:      st.Brightness,
		Speed:           st.Speed,
		Intensity:       st.Params.Intensity,
		Saturation:      st.Params.Saturation,
		Complexity:      st.Params.Complexity,
		Variation:       st.Params.Variation,
		Sync:            st.Sync.String(),
		Propagation:     st.Propagation.String(),
		Strip2Enabled:   st.Strip2.Enabled,
		Strip2EffectID:  st.Strip2.EffectID,
		Strip2PaletteID: st.Strip2.PaletteID,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode last state: %w", err)
	}
	if _, err := s.settingRepo.Upsert(ctx, LastStateKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist last state: %w", err)
	}
	return nil
}

// RestoreLastState applies the persisted state immediately, typically at boot.
// A missing or corrupt record leaves the default state in place.
func (s *Service) RestoreLastState(ctx context.Context) (bool, error) {
	setting, err := s.settingRepo.FindByKey(ctx, LastStateKey)
	if err != nil {
		return false, err
	}
	if setting == nil {
		return false, nil
	}

	var rec stateRecord
	if err := json.Unmarshal([]byte(setting.Value), &rec); err != nil {
		return false, fmt.Errorf("corrupt last state record: %w", err)
	}

	st := render.RenderState{
		EffectID:   rec.EffectID,
		PaletteID:  rec.PaletteID,
		Brightness: rec.Brightness,
		Speed:      rec.Speed,
		Params: render.VisualParams{
			Intensity:  rec.Intensity,
			Saturation: rec.Saturation,
			Complexity: rec.Complexity,
			Variation:  rec.Variation,
		},
		Sync:        render.ParseSyncMode(rec.Sync),
		Propagation: render.ParsePropagationMode(rec.Propagation),
		Strip2: render.StripOverride{
			Enabled:   rec.Strip2Enabled,
			EffectID:  rec.Strip2EffectID,
			PaletteID: rec.Strip2PaletteID,
		},
	}
	s.controller.ApplyImmediate(st)
	return true, nil
}

// PresetToState converts a stored preset into a render state.
func PresetToState(p *models.Preset) render.RenderState {
	st := render.RenderState{
		EffectID:   uint8(clampInt(p.EffectID, 0, 255)),
		PaletteID:  uint8(clampInt(p.PaletteID, 0, 255)),
		Brightness: uint8(clampInt(p.Brightness, 0, 255)),
		Speed:      uint8(clampInt(p.Speed, 0, 255)),
		Params: render.VisualParams{
			Intensity:  uint8(clampInt(p.Intensity, 0, 255)),
			Saturation: uint8(clampInt(p.Saturation, 0, 255)),
			Complexity: uint8(clampInt(p.Complexity, 0, 255)),
			Variation:  uint8(clampInt(p.Variation, 0, 255)),
		},
		Sync:        render.ParseSyncMode(p.SyncMode),
		Propagation: render.ParsePropagationMode(p.PropagationMode),
		Strip2: render.StripOverride{
			Enabled:   p.Strip2Enabled,
			EffectID:  uint8(clampInt(p.Strip2EffectID, 0, 255)),
			PaletteID: uint8(clampInt(p.Strip2PaletteID, 0, 255)),
		},
	}
	st.Sanitize()
	return st
}

// StateToPreset converts a render state into a storable preset, leaving the
// name, position, and transition preference for the caller.
func StateToPreset(st render.RenderState) models.Preset {
	return models.Preset{
		EffectID:        int(st.EffectID),
		PaletteID:       int(st.PaletteID),
		Brightness:      int(st.Brightness),
		Speed:           int(st.Speed),
		Intensity:       int(st.Params.Intensity),
		Saturation:      int(st.Params.Saturation),
		Complexity:      int(st.Params.Complexity),
		Variation:       int(st.Params.Variation),
		SyncMode:        st.Sync.String(),
		PropagationMode: st.Propagation.String(),
		Strip2Enabled:   st.Strip2.Enabled,
		Strip2EffectID:  int(st.Strip2.EffectID),
		Strip2PaletteID: int(st.Strip2.PaletteID),
	}
}

func (s *Service) publishUpdate(presetID, action string) {
	if s.pubsub == nil {
		return
	}
	s.pubsub.Publish(pubsub.TopicPresetUpdated, presetID, map[string]string{
		"presetId": presetID,
		"action":   action,
	})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
