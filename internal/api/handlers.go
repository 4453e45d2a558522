package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/internal/services/network"
)

// stateDTO is the wire shape of a render state.
type stateDTO struct {
	EffectID        uint8  `json:"effectId"`
	EffectName      string `json:"effectName,omitempty"`
	PaletteID       uint8  `json:"paletteId"`
	PaletteName     string `json:"paletteName,omitempty"`
	Brightness      uint8  `json:"brightness"`
	Speed           uint8  `json:"speed"`
	Intensity       uint8  `json:"intensity"`
	Saturation      uint8  `json:"saturation"`
	Complexity      uint8  `json:"complexity"`
	Variation       uint8  `json:"variation"`
	SyncMode        string `json:"syncMode"`
	PropagationMode string `json:"propagationMode"`

	Strip2Enabled   bool  `json:"strip2Enabled"`
	Strip2EffectID  uint8 `json:"strip2EffectId"`
	Strip2PaletteID uint8 `json:"strip2PaletteId"`
}

func stateToDTO(st render.RenderState) stateDTO {
	return stateDTO{
		EffectID:        st.EffectID,
		EffectName:      render.EffectName(st.EffectID),
		PaletteID:       st.PaletteID,
		PaletteName:     render.PaletteName(st.PaletteID),
		Brightness:      st.Brightness,
		Speed:           st.Speed,
		Intensity:       st.Params.Intensity,
		Saturation:      st.Params.Saturation,
		Complexity:      st.Params.Complexity,
		Variation:       st.Params.Variation,
		SyncMode:        st.Sync.String(),
		PropagationMode: st.Propagation.String(),
		Strip2Enabled:   st.Strip2.Enabled,
		Strip2EffectID:  st.Strip2.EffectID,
		Strip2PaletteID: st.Strip2.PaletteID,
	}
}

func (d stateDTO) toState() render.RenderState {
	st := render.RenderState{
		EffectID:   d.EffectID,
		PaletteID:  d.PaletteID,
		Brightness: d.Brightness,
		Speed:      d.Speed,
		Params: render.VisualParams{
			Intensity:  d.Intensity,
			Saturation: d.Saturation,
			Complexity: d.Complexity,
			Variation:  d.Variation,
		},
		Sync:        render.ParseSyncMode(d.SyncMode),
		Propagation: render.ParsePropagationMode(d.PropagationMode),
		Strip2: render.StripOverride{
			Enabled:   d.Strip2Enabled,
			EffectID:  d.Strip2EffectID,
			PaletteID: d.Strip2PaletteID,
		},
	}
	st.Sanitize()
	return st
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// statusPayload is the /api/status and WebSocket status body.
type statusPayload struct {
	State              stateDTO `json:"state"`
	TransitionActive   bool     `json:"transitionActive"`
	TransitionProgress float64  `json:"transitionProgress"`
	FrameCount         uint64   `json:"frameCount"`
	Overruns           uint64   `json:"overruns"`
	FrameBudgetMicros  int64    `json:"frameBudgetMicros"`
}

func (s *Server) statusPayload() statusPayload {
	active, progress := s.scheduler.TransitionActive()
	return statusPayload{
		State:              stateToDTO(s.scheduler.CaptureState()),
		TransitionActive:   active,
		TransitionProgress: progress,
		FrameCount:         s.scheduler.FrameCount(),
		Overruns:           s.scheduler.Overruns(),
		FrameBudgetMicros:  s.scheduler.Budget().Microseconds(),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.statusPayload())
}

// handleSubmitParams accepts a parameter snapshot. Fields omitted from the
// request keep their current values; the snapshot is handed to the render
// loop atomically and takes effect on the next frame.
func (s *Server) handleSubmitParams(w http.ResponseWriter, r *http.Request) {
	dto := stateToDTO(s.scheduler.State())
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	st := dto.toState()
	s.scheduler.SubmitSnapshot(render.ParameterSnapshot{
		EffectID:    st.EffectID,
		PaletteID:   st.PaletteID,
		Brightness:  st.Brightness,
		Speed:       st.Speed,
		Params:      st.Params,
		Sync:        st.Sync,
		Propagation: st.Propagation,
		Strip2:      st.Strip2,
	})

	s.publishStatus()
	respondJSON(w, http.StatusAccepted, stateToDTO(st))
}

// transitionRequest targets a full state change through the blend engine.
type transitionRequest struct {
	Target     stateDTO `json:"target"`
	Type       string   `json:"type"`
	DurationMs int      `json:"durationMs"`
	Easing     string   `json:"easing"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	req := transitionRequest{Target: stateToDTO(s.scheduler.State())}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	target := req.Target.toState()
	spec := render.TransitionSpec{
		Type:     render.ParseTransitionType(req.Type),
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
		Easing:   render.EasingType(req.Easing),
	}

	if spec.Duration <= 0 {
		s.scheduler.ApplyImmediate(target)
	} else {
		s.scheduler.ApplyTransition(target, spec)
	}

	s.publishStatus()
	respondJSON(w, http.StatusAccepted, s.statusPayload())
}

func (s *Server) handleListEffects(w http.ResponseWriter, r *http.Request) {
	type effectDTO struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	effects := make([]effectDTO, render.EffectCount)
	for i := range effects {
		effects[i] = effectDTO{ID: i, Name: render.EffectName(uint8(i))}
	}
	respondJSON(w, http.StatusOK, effects)
}

func (s *Server) handleListPalettes(w http.ResponseWriter, r *http.Request) {
	type paletteDTO struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	palettes := make([]paletteDTO, render.PaletteCount)
	for i := range palettes {
		palettes[i] = paletteDTO{ID: i, Name: render.PaletteName(uint8(i))}
	}
	respondJSON(w, http.StatusOK, palettes)
}

func (s *Server) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(render.TransitionTypes))
	for i, t := range render.TransitionTypes {
		names[i] = string(t)
	}
	respondJSON(w, http.StatusOK, names)
}

// handleListInterfaces exposes candidate Art-Net broadcast destinations so a
// frontend can offer a destination picker.
func (s *Server) handleListInterfaces(w http.ResponseWriter, r *http.Request) {
	options, err := network.DiscoverBroadcastOptions()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, options)
}

// --- presets ---

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.presets.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, presets)
}

type savePresetRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req savePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	saved, err := s.presets.SaveCurrent(r.Context(), req.Name, req.Position)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if p == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("preset not found"))
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	existing, err := s.presets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if existing == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("preset not found"))
		return
	}

	var updated models.Preset
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.presets.Update(r.Context(), &updated); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type applyPresetRequest struct {
	Type       string `json:"type"`
	DurationMs *int   `json:"durationMs"`
	Easing     string `json:"easing"`
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req applyPresetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
			return
		}
	}

	var spec *render.TransitionSpec
	if req.Type != "" || req.DurationMs != nil {
		duration := time.Second
		if req.DurationMs != nil {
			duration = time.Duration(*req.DurationMs) * time.Millisecond
		}
		spec = &render.TransitionSpec{
			Type:     render.ParseTransitionType(req.Type),
			Duration: duration,
			Easing:   render.EasingType(req.Easing),
		}
	}

	applied, err := s.presets.Apply(r.Context(), chi.URLParam(r, "id"), spec)
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	s.publishStatus()
	respondJSON(w, http.StatusOK, applied)
}

// --- sequences ---

func (s *Server) handleListSequences(w http.ResponseWriter, r *http.Request) {
	sequences, err := s.seqRepo.FindAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, sequences)
}

func (s *Server) handleCreateSequence(w http.ResponseWriter, r *http.Request) {
	var seq models.Sequence
	if err := json.NewDecoder(r.Body).Decode(&seq); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(seq.Steps) == 0 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("sequence needs at least one step"))
		return
	}
	if err := s.seqRepo.Create(r.Context(), &seq); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusCreated, seq)
}

func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	seq, err := s.seqRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if seq == nil {
		respondError(w, http.StatusNotFound, fmt.Errorf("sequence not found"))
		return
	}
	respondJSON(w, http.StatusOK, seq)
}

func (s *Server) handleDeleteSequence(w http.ResponseWriter, r *http.Request) {
	if err := s.seqRepo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartSequence(w http.ResponseWriter, r *http.Request) {
	if err := s.player.Start(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respondJSON(w, http.StatusOK, s.player.Status())
}

func (s *Server) handleStopSequence(w http.ResponseWriter, r *http.Request) {
	s.player.Stop()
	respondJSON(w, http.StatusOK, s.player.Status())
}

func (s *Server) handlePlaybackStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.player.Status())
}
