package render

// DefaultChaseDelayFrames is the strip-2 delay used by the Chase sync mode
// when no explicit configuration is given.
const DefaultChaseDelayFrames = 6

// ChaseRing is the fixed-capacity history of strip-1 frames backing the Chase
// sync mode. It is allocated once; pushes overwrite the oldest frame when
// full, and reads before the history is warm return the oldest frame held.
type ChaseRing struct {
	frames [][StripLen]Pixel
	delay  int
	head   int // slot the next push writes
	count  int
}

// NewChaseRing builds a ring holding delay+1 frames so that after pushing
// frame N the ring still holds frame N-delay.
func NewChaseRing(delay int) *ChaseRing {
	if delay < 1 {
		delay = 1
	}
	return &ChaseRing{
		frames: make([][StripLen]Pixel, delay+1),
		delay:  delay,
	}
}

// Delay returns the configured delay in frames.
func (r *ChaseRing) Delay() int { return r.delay }

// Reset discards all buffered history. Called when the Chase mode activates
// so stale frames from an earlier activation never show.
func (r *ChaseRing) Reset() {
	r.head = 0
	r.count = 0
}

// Push stores a copy of strip1's current frame.
func (r *ChaseRing) Push(strip1 Buffer) {
	copy(r.frames[r.head][:], strip1)
	r.head = (r.head + 1) % len(r.frames)
	if r.count < len(r.frames) {
		r.count++
	}
}

// ReadDelayed copies the frame from delay pushes ago into dst. Before the
// ring is warm it falls back to the oldest buffered frame; it never exposes
// unwritten memory (the ring zero-fills until the first push).
func (r *ChaseRing) ReadDelayed(dst Buffer) {
	if r.count == 0 {
		dst.Fill(Pixel{})
		return
	}
	back := r.delay
	if back > r.count-1 {
		back = r.count - 1
	}
	// head points one past the most recent push
	slot := (r.head - 1 - back + 2*len(r.frames)) % len(r.frames)
	copy(dst, r.frames[slot][:])
}

// Engine is the spatial transform engine: it walks a strip through the
// precomputed propagation table, invokes the effect renderer per
// propagation-space index, and couples the two strips according to the sync
// mode. One Engine renders one configuration per frame; the transition
// engine drives two of them.
type Engine struct {
	tables tableSet
	chase  *ChaseRing

	// lastSync detects Chase activation edges so the ring resets exactly
	// once per activation.
	lastSync SyncMode
}

// NewEngine precomputes all propagation tables and allocates the chase ring.
// Nothing here runs per frame.
func NewEngine(chaseDelayFrames int) *Engine {
	return &Engine{
		tables:   newTableSet(),
		chase:    NewChaseRing(chaseDelayFrames),
		lastSync: SyncSynchronized,
	}
}

// Table exposes the precomputed table for a propagation mode.
func (e *Engine) Table(mode PropagationMode) *SpatialIndexTable {
	return e.tables[mode]
}

// ResetChase clears the chase history, e.g. when a transition hands this
// engine a new configuration.
func (e *Engine) ResetChase() {
	e.chase.Reset()
	e.lastSync = SyncSynchronized
}

// RenderFrame renders one full two-strip frame for state st at time t into
// out (length TotalPixels). The pass performs no allocation and no blocking.
func (e *Engine) RenderFrame(st *RenderState, t FrameTime, out Buffer) {
	table := e.tables[st.Propagation]
	bucket := 0
	if st.Propagation == PropAlternating {
		bucket = phaseBucket(t, st.Speed)
	}

	ctx := EffectContext{
		Params:    st.Params,
		PaletteID: st.PaletteID,
		Speed:     st.Speed,
		Time:      t,
	}

	strip1 := out.Strip1()
	strip2 := out.Strip2()

	for p := 0; p < StripLen; p++ {
		strip1[p] = RenderEffect(st.EffectID, table.Lookup(p, bucket), &ctx)
	}

	switch st.Sync {
	case SyncSynchronized:
		strip2.CopyFrom(strip1)

	case SyncMirrored:
		for p := 0; p < StripLen; p++ {
			strip2[p] = strip1[StripLen-1-p]
		}

	case SyncIndependent:
		ctx2 := ctx
		effect2 := st.EffectID
		if st.Strip2.Enabled {
			effect2 = st.Strip2.EffectID
			ctx2.PaletteID = st.Strip2.PaletteID
			ctx2.Params = st.Strip2.Params
		}
		for p := 0; p < StripLen; p++ {
			strip2[p] = RenderEffect(effect2, table.Lookup(p, bucket), &ctx2)
		}

	case SyncChase:
		if e.lastSync != SyncChase {
			e.chase.Reset()
		}
		e.chase.Push(strip1)
		e.chase.ReadDelayed(strip2)
	}
	e.lastSync = st.Sync

	if st.Brightness != 255 {
		out.Scale(st.Brightness)
	}
}
