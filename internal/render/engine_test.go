package render

import "testing"

func testState() RenderState {
	st := DefaultState()
	st.EffectID = 11
	st.PaletteID = 2
	st.Brightness = 255
	st.Propagation = PropLeftToRight
	return st
}

func renderAt(e *Engine, st RenderState, millis uint32, frame uint64) Buffer {
	out := NewBuffer(TotalPixels)
	e.RenderFrame(&st, FrameTime{Millis: millis, Frame: frame}, out)
	return out
}

func TestSynchronizedStripsIdentical(t *testing.T) {
	e := NewEngine(3)
	st := testState()
	st.Sync = SyncSynchronized

	out := renderAt(e, st, 5000, 100)
	for i := 0; i < StripLen; i++ {
		if out.Strip1()[i] != out.Strip2()[i] {
			t.Fatalf("pixel %d: strip1 %v != strip2 %v", i, out.Strip1()[i], out.Strip2()[i])
		}
	}
}

func TestMirroredInvariant(t *testing.T) {
	e := NewEngine(3)
	st := testState()
	st.Sync = SyncMirrored

	out := renderAt(e, st, 5000, 100)
	for i := 0; i < StripLen; i++ {
		want := out.Strip1()[StripLen-1-i]
		if got := out.Strip2()[i]; got != want {
			t.Fatalf("strip2[%d] = %v, want strip1[%d] = %v", i, got, StripLen-1-i, want)
		}
	}
}

func TestChaseDelay(t *testing.T) {
	const delay = 3
	e := NewEngine(delay)
	st := testState()
	st.Sync = SyncChase

	// Record strip1 frames while ticking past warm-up.
	var history [][]Pixel
	var outputs []Buffer
	for n := 0; n < 10; n++ {
		out := renderAt(e, st, uint32(n*50), uint64(n))
		s1 := make([]Pixel, StripLen)
		copy(s1, out.Strip1())
		history = append(history, s1)
		outputs = append(outputs, out)
	}

	for n := delay; n < 10; n++ {
		for i := 0; i < StripLen; i++ {
			if got, want := outputs[n].Strip2()[i], history[n-delay][i]; got != want {
				t.Fatalf("tick %d strip2[%d] = %v, want strip1 from tick %d = %v",
					n, i, got, n-delay, want)
			}
		}
	}
}

func TestChaseWarmupHoldsOldestFrame(t *testing.T) {
	const delay = 3
	e := NewEngine(delay)
	st := testState()
	st.Sync = SyncChase

	first := renderAt(e, st, 0, 0)
	firstStrip1 := make([]Pixel, StripLen)
	copy(firstStrip1, first.Strip1())

	// Before delay frames exist, strip2 holds the oldest buffered frame.
	second := renderAt(e, st, 50, 1)
	for i := 0; i < StripLen; i++ {
		if got := second.Strip2()[i]; got != firstStrip1[i] {
			t.Fatalf("warm-up strip2[%d] = %v, want first frame pixel %v", i, got, firstStrip1[i])
		}
	}
}

func TestIndependentUsesOverride(t *testing.T) {
	e := NewEngine(3)
	st := testState()
	st.Sync = SyncIndependent
	st.Strip2 = StripOverride{
		Enabled:   true,
		EffectID:  0,
		PaletteID: 3,
		Params:    VisualParams{Intensity: 255, Saturation: 255, Complexity: 0, Variation: 200},
	}

	out := renderAt(e, st, 5000, 100)

	// Strip 2 runs the solid effect: all pixels equal, and distinct from a
	// wave-driven strip 1.
	ref := out.Strip2()[0]
	for i := 1; i < StripLen; i++ {
		if out.Strip2()[i] != ref {
			t.Fatalf("strip2[%d] = %v, want uniform solid %v", i, out.Strip2()[i], ref)
		}
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	st := testState()
	st.Sync = SyncSynchronized
	st.Propagation = PropAlternating

	a := renderAt(NewEngine(3), st, 7777, 400)
	b := renderAt(NewEngine(3), st, 7777, 400)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pixel %d differs between identical passes: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestBrightnessScalesOutput(t *testing.T) {
	stFull := testState()
	stFull.Sync = SyncSynchronized
	stFull.Brightness = 255
	stHalf := stFull
	stHalf.Brightness = 128

	full := renderAt(NewEngine(3), stFull, 5000, 100)
	half := renderAt(NewEngine(3), stHalf, 5000, 100)

	for i := range full {
		if half[i].R > full[i].R || half[i].G > full[i].G || half[i].B > full[i].B {
			t.Fatalf("pixel %d brighter at half brightness: %v vs %v", i, half[i], full[i])
		}
	}
}

func TestAllModeCombinations(t *testing.T) {
	// All 20 sync x propagation pairs are valid; none may panic or emit a
	// wrong-size frame.
	e := NewEngine(3)
	for sync := SyncMode(0); sync < numSyncModes; sync++ {
		for prop := PropagationMode(0); prop < numPropagationModes; prop++ {
			st := testState()
			st.Sync = sync
			st.Propagation = prop
			out := renderAt(e, st, 1000, 1)
			if len(out) != TotalPixels {
				t.Fatalf("%v/%v: frame length %d, want %d", sync, prop, len(out), TotalPixels)
			}
		}
	}
}

func TestChaseRingNeverExposesUnwritten(t *testing.T) {
	r := NewChaseRing(5)
	dst := NewBuffer(StripLen)
	dst.Fill(Pixel{R: 9, G: 9, B: 9})
	r.ReadDelayed(dst)
	for i := range dst {
		if dst[i] != (Pixel{}) {
			t.Fatalf("empty ring read gave %v at %d, want black", dst[i], i)
		}
	}
}
