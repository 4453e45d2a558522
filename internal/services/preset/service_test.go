package preset

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lightwaveos/lightwave-go/internal/database/models"
	"github.com/lightwaveos/lightwave-go/internal/database/repositories"
	"github.com/lightwaveos/lightwave-go/internal/render"
)

// fakeController records scheduler calls without rendering anything.
type fakeController struct {
	mu          sync.Mutex
	current     render.RenderState
	immediates  []render.RenderState
	transitions []render.RenderState
	specs       []render.TransitionSpec
}

func (f *fakeController) CaptureState() render.RenderState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeController) ApplyImmediate(target render.RenderState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = target
	f.immediates = append(f.immediates, target)
}

func (f *fakeController) ApplyTransition(target render.RenderState, spec render.TransitionSpec) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = target
	f.transitions = append(f.transitions, target)
	f.specs = append(f.specs, spec)
}

func (f *fakeController) transitionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transitions)
}

func setupService(t *testing.T) (*Service, *fakeController, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Preset{}, &models.Sequence{}, &models.SequenceStep{}, &models.Setting{}); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	ctrl := &fakeController{current: render.DefaultState()}
	svc := NewService(
		repositories.NewPresetRepository(db),
		repositories.NewSettingRepository(db),
		ctrl,
		nil,
	)
	return svc, ctrl, db
}

func TestSaveCurrentCapturesVisibleState(t *testing.T) {
	svc, ctrl, _ := setupService(t)
	ctx := context.Background()

	ctrl.current.EffectID = 42
	ctrl.current.Sync = render.SyncMirrored
	ctrl.current.Params.Intensity = 210

	saved, err := svc.SaveCurrent(ctx, "Evening", 3)
	if err != nil {
		t.Fatalf("SaveCurrent failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("saved preset has no id")
	}
	if saved.EffectID != 42 || saved.SyncMode != "MIRRORED" || saved.Intensity != 210 {
		t.Errorf("saved preset does not match captured state: %+v", saved)
	}
	if saved.Position != 3 || saved.Name != "Evening" {
		t.Errorf("slot metadata wrong: %+v", saved)
	}
}

func TestSaveCurrentValidatesSlot(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.SaveCurrent(ctx, "Bad", MaxSlots); err == nil {
		t.Error("expected error for out-of-range position")
	}
	if _, err := svc.SaveCurrent(ctx, "", 0); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestApplyUsesStoredTransition(t *testing.T) {
	svc, ctrl, _ := setupService(t)
	ctx := context.Background()

	ctrl.current.EffectID = 7
	saved, err := svc.SaveCurrent(ctx, "Stored", 0)
	if err != nil {
		t.Fatalf("SaveCurrent failed: %v", err)
	}
	saved.TransitionType = "WIPE_OUT"
	saved.TransitionMs = 800
	if err := svc.Update(ctx, saved); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := svc.Apply(ctx, saved.ID, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if ctrl.transitionCount() != 1 {
		t.Fatalf("transitions = %d, want 1", ctrl.transitionCount())
	}
	if ctrl.specs[0].Type != render.TransitionWipeOut || ctrl.specs[0].Duration != 800*time.Millisecond {
		t.Errorf("spec = %+v, want stored WIPE_OUT 800ms", ctrl.specs[0])
	}
	if ctrl.transitions[0].EffectID != 7 {
		t.Errorf("applied effect id = %d, want 7", ctrl.transitions[0].EffectID)
	}
}

func TestApplySpecOverrideAndImmediate(t *testing.T) {
	svc, ctrl, _ := setupService(t)
	ctx := context.Background()

	saved, err := svc.SaveCurrent(ctx, "Override", 1)
	if err != nil {
		t.Fatalf("SaveCurrent failed: %v", err)
	}

	spec := render.TransitionSpec{Type: render.TransitionDissolve, Duration: 2 * time.Second}
	if _, err := svc.Apply(ctx, saved.ID, &spec); err != nil {
		t.Fatalf("Apply with override failed: %v", err)
	}
	if ctrl.specs[0].Type != render.TransitionDissolve {
		t.Errorf("override spec not honored: %+v", ctrl.specs[0])
	}

	instant := render.TransitionSpec{Type: render.TransitionCrossfade, Duration: 0}
	if _, err := svc.Apply(ctx, saved.ID, &instant); err != nil {
		t.Fatalf("Apply immediate failed: %v", err)
	}
	if len(ctrl.immediates) != 1 {
		t.Errorf("immediates = %d, want 1 for zero-duration spec", len(ctrl.immediates))
	}
}

func TestApplyMissingPreset(t *testing.T) {
	svc, _, _ := setupService(t)
	if _, err := svc.Apply(context.Background(), "nope", nil); err == nil {
		t.Error("expected error for missing preset")
	}
}

func TestPersistAndRestoreLastState(t *testing.T) {
	svc, ctrl, _ := setupService(t)
	ctx := context.Background()

	st := render.DefaultState()
	st.EffectID = 99
	st.Sync = render.SyncChase
	st.Propagation = render.PropAlternating
	st.Strip2 = render.StripOverride{Enabled: true, EffectID: 5, PaletteID: 2}
	if err := svc.PersistLastState(ctx, st); err != nil {
		t.Fatalf("PersistLastState failed: %v", err)
	}

	ctrl.current = render.DefaultState()
	restored, err := svc.RestoreLastState(ctx)
	if err != nil {
		t.Fatalf("RestoreLastState failed: %v", err)
	}
	if !restored {
		t.Fatal("RestoreLastState reported nothing to restore")
	}
	got := ctrl.immediates[len(ctrl.immediates)-1]
	if got.EffectID != 99 || got.Sync != render.SyncChase || got.Propagation != render.PropAlternating {
		t.Errorf("restored state = %+v, want persisted values", got)
	}
	if !got.Strip2.Enabled || got.Strip2.EffectID != 5 {
		t.Errorf("strip 2 override not restored: %+v", got.Strip2)
	}
}

func TestRestoreLastStateMissing(t *testing.T) {
	svc, ctrl, _ := setupService(t)

	restored, err := svc.RestoreLastState(context.Background())
	if err != nil {
		t.Fatalf("RestoreLastState failed: %v", err)
	}
	if restored {
		t.Error("RestoreLastState = true with no stored record")
	}
	if len(ctrl.immediates) != 0 {
		t.Error("controller touched with no stored record")
	}
}

func TestPresetStateRoundTrip(t *testing.T) {
	st := render.DefaultState()
	st.EffectID = 64
	st.PaletteID = 9
	st.Sync = render.SyncMirrored
	st.Propagation = render.PropRightToLeft
	st.Strip2 = render.StripOverride{Enabled: true, EffectID: 12, PaletteID: 3}

	preset := StateToPreset(st)
	back := PresetToState(&preset)
	// Strip2 params are not persisted on presets; everything else must survive
	st.Strip2.Params = render.VisualParams{}
	if back != st {
		t.Errorf("round trip drifted:\n got %+v\nwant %+v", back, st)
	}
}

func TestPresetToStateClampsCorruptRows(t *testing.T) {
	p := &models.Preset{EffectID: 9999, PaletteID: -4, Brightness: 300, SyncMode: "bogus"}
	st := PresetToState(p)
	if st.EffectID != 0 {
		t.Errorf("effect id = %d, want clamped 0", st.EffectID)
	}
	if st.PaletteID != 0 {
		t.Errorf("palette id = %d, want clamped 0", st.PaletteID)
	}
	if st.Brightness != 255 {
		t.Errorf("brightness = %d, want clamped 255", st.Brightness)
	}
	if st.Sync != render.SyncIndependent {
		t.Errorf("sync = %v, want fallback INDEPENDENT", st.Sync)
	}
}
