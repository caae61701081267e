package game

import (
	"testing"
	"time"

	"gachapon/internal/config"
	"gachapon/internal/physics"
)

type eventRecorder struct{ calls []string }

func (r *eventRecorder) Click()      { r.calls = append(r.calls, "click") }
func (r *eventRecorder) SpinStart()  { r.calls = append(r.calls, "spin") }
func (r *eventRecorder) PrizeSpawn() { r.calls = append(r.calls, "pop") }
func (r *eventRecorder) Fanfare()    { r.calls = append(r.calls, "fanfare") }

func testContent(fates, names []string) config.Content {
	c := config.DefaultContent()
	c.Fates = fates
	c.Names = names
	c.FateBallCount = 10
	return c
}

func newTestMachine(seed uint64, c config.Content) (*Machine, *eventRecorder, time.Time) {
	rec := &eventRecorder{}
	t0 := time.Unix(1000, 0)
	m := NewMachine(c, physics.NewWorld(), NewSeededRNG(seed), rec, t0)
	return m, rec, t0
}

// runDraw spins at start, steps through dispense and reveal, claims, and
// returns the prize that was revealed along with the time after the claim.
func runDraw(t *testing.T, m *Machine, start time.Time) (Prize, time.Time) {
	t.Helper()
	if !m.Spin(start) {
		t.Fatal("spin refused while idle")
	}
	p := m.Prize()
	if p == nil {
		t.Fatal("no prize captured at spin time")
	}
	got := *p
	m.Update(start.Add(SpinDelay))
	if m.Phase() != PhaseDrawing {
		t.Fatalf("phase %v before reveal delay", m.Phase())
	}
	end := start.Add(SpinDelay + RevealDelay)
	m.Update(end)
	if m.Phase() != PhaseRevealed {
		t.Fatalf("phase %v after reveal delay", m.Phase())
	}
	if !m.Claim() {
		t.Fatal("claim refused while revealed")
	}
	m.Update(end)
	return got, end
}

func TestSpinMutualExclusion(t *testing.T) {
	m, _, t0 := newTestMachine(1, testContent([]string{"x", "y"}, []string{"Aki", "Ben"}))
	if !m.Spin(t0) {
		t.Fatal("first spin refused")
	}
	seq, count := m.Seq(), len(m.Balls())

	if m.Spin(t0.Add(time.Millisecond)) {
		t.Fatal("spin accepted while drawing")
	}
	if m.Seq() != seq || len(m.Balls()) != count {
		t.Fatal("refused spin mutated state")
	}

	m.Update(t0.Add(SpinDelay + RevealDelay))
	if m.Phase() != PhaseRevealed {
		t.Fatalf("phase %v", m.Phase())
	}
	if m.Spin(t0.Add(SpinDelay + RevealDelay)) {
		t.Fatal("spin accepted while revealed")
	}
	if m.Seq() != seq {
		t.Fatal("refused spin incremented the counter")
	}
}

func TestAttributeContinuitySquad(t *testing.T) {
	names := []string{"Aki", "Ben", "Chiro", "Dana", "Eli"}
	m, _, now := newTestMachine(2, testContent(nil, names))
	if !m.CycleMode() {
		t.Fatal("cycle refused")
	}
	if m.Mode() != ModeSquad {
		t.Fatalf("mode %v", m.Mode())
	}
	m.Update(now)
	if len(m.Balls()) != len(names) {
		t.Fatalf("squad population %d want %d", len(m.Balls()), len(names))
	}

	for draw := 0; draw < len(names); draw++ {
		balls := m.Balls()
		marked := balls[len(balls)-1]
		if !m.Spin(now) {
			t.Fatalf("draw %d: spin refused", draw)
		}
		p := m.Prize()
		if p.BallID != marked.ID || p.Color != marked.Color {
			t.Fatalf("draw %d: prize bound to %s, designated ball is %s", draw, p.BallID, marked.ID)
		}
		now = now.Add(SpinDelay + RevealDelay)
		m.Update(now)
		for _, b := range m.Balls() {
			if b.ID == marked.ID {
				t.Fatalf("draw %d: designated ball still alive after reveal shrink", draw)
			}
		}
		if !m.Claim() {
			t.Fatalf("draw %d: claim refused", draw)
		}
		m.Update(now)
		now = now.Add(time.Second)
	}
	if len(m.SquadActive()) != 0 || len(m.Balls()) != 0 {
		t.Fatalf("roster %d balls %d after exhausting squad", len(m.SquadActive()), len(m.Balls()))
	}
}

func TestRevealedAnticipatesRemoval(t *testing.T) {
	names := []string{"Aki", "Ben", "Chiro"}
	m, _, t0 := newTestMachine(3, testContent(nil, names))
	m.CycleMode()
	m.Update(t0)

	m.Spin(t0)
	m.Update(t0.Add(SpinDelay)) // still drawing: no shrink yet
	if len(m.Balls()) != 3 {
		t.Fatalf("population shrank before reveal: %d", len(m.Balls()))
	}
	m.Update(t0.Add(SpinDelay + RevealDelay))
	if len(m.Balls()) != 2 {
		t.Fatalf("revealed population %d want 2", len(m.Balls()))
	}
	if len(m.SquadActive()) != 3 {
		t.Fatal("roster shrank before claim")
	}
	m.Claim()
	m.Update(t0.Add(SpinDelay + RevealDelay))
	if len(m.SquadActive()) != 2 || len(m.Balls()) != 2 {
		t.Fatalf("after claim: roster %d balls %d", len(m.SquadActive()), len(m.Balls()))
	}
}

func TestSquadEliminationAndReload(t *testing.T) {
	names := []string{"Aki", "Ben", "Chiro"}
	c := testContent(nil, names)
	m, _, now := newTestMachine(4, c)
	m.CycleMode()
	m.Update(now)

	p, now := runDraw(t, m, now)
	if p.Empty {
		t.Fatal("squad draw with members yielded the sentinel")
	}
	if len(m.SquadActive()) != 2 {
		t.Fatalf("active roster %d want 2", len(m.SquadActive()))
	}
	for _, s := range m.SquadActive() {
		if s == p.Text {
			t.Fatalf("%q still in active roster after claim", p.Text)
		}
	}
	if got := m.Content().Names; len(got) != 3 {
		t.Fatalf("master roster mutated: %v", got)
	}

	// Leaving squad and coming back with members remaining keeps progress.
	m.CycleMode() // gift
	m.CycleMode() // fate
	m.CycleMode() // squad again
	if len(m.SquadActive()) != 2 {
		t.Fatalf("partial elimination lost on re-entry: %d", len(m.SquadActive()))
	}

	// Playing it empty and re-entering reloads from the master roster.
	_, now = runDraw(t, m, now)
	_, now = runDraw(t, m, now)
	if len(m.SquadActive()) != 0 {
		t.Fatalf("active roster not empty: %v", m.SquadActive())
	}
	m.CycleMode()
	m.CycleMode()
	m.CycleMode()
	if len(m.SquadActive()) != 3 {
		t.Fatalf("empty roster not reloaded on re-entry: %v", m.SquadActive())
	}
}

func TestFateCountConstant(t *testing.T) {
	m, _, now := newTestMachine(5, testContent([]string{"x", "y", "z"}, []string{"Aki", "Ben"}))
	m.Update(now)
	if len(m.Balls()) != 10 {
		t.Fatalf("fate population %d want 10", len(m.Balls()))
	}
	p, _ := runDraw(t, m, now)
	if p.Empty || p.Text == "" {
		t.Fatalf("fate draw produced %+v", p)
	}
	if len(m.Balls()) != 10 {
		t.Fatalf("fate population changed across a draw: %d", len(m.Balls()))
	}
}

func TestEmptyDomainSentinel(t *testing.T) {
	m, _, now := newTestMachine(6, testContent(nil, []string{"Aki", "Ben"}))
	p, _ := runDraw(t, m, now)
	if !p.Empty {
		t.Fatalf("empty fate list must yield the sentinel, got %+v", p)
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("phase %v after claiming a sentinel", m.Phase())
	}
}

func TestGiftExchangeFlow(t *testing.T) {
	names := []string{"Aki", "Ben", "Chiro", "Dana"}
	m, _, now := newTestMachine(7, testContent(nil, names))
	m.CycleMode() // squad
	m.CycleMode() // gift
	m.Update(now)
	if len(m.Balls()) != len(names) {
		t.Fatalf("gift preview population %d want %d", len(m.Balls()), len(names))
	}

	if err := m.StartExchange(); err != nil {
		t.Fatal(err)
	}
	order := m.Exchange().Order()
	n := len(order)

	for step := 0; step < n; step++ {
		giver, _ := m.Exchange().CurrentGiver()
		if giver != order[step] {
			t.Fatalf("step %d: giver %q want %q", step, giver, order[step])
		}
		p, end := runDraw(t, m, now)
		now = end.Add(time.Second)
		if p.Empty || p.Text != order[(step+1)%n] {
			t.Fatalf("step %d: prize %+v want recipient %q", step, p, order[(step+1)%n])
		}
		if got := m.Exchange().Cursor(); got != step+1 {
			t.Fatalf("step %d: cursor %d", step, got)
		}
	}
	if !m.Exchange().Complete() {
		t.Fatal("exchange not complete")
	}
	m.Update(now)
	if len(m.Balls()) != 0 {
		t.Fatalf("completed exchange still has %d balls", len(m.Balls()))
	}

	// Drawing on a completed exchange yields the sentinel.
	p, _ := runDraw(t, m, now)
	if !p.Empty {
		t.Fatalf("completed exchange draw produced %+v", p)
	}
}

func TestStartExchangeValidationRefusal(t *testing.T) {
	m, _, _ := newTestMachine(8, testContent(nil, []string{"solo"}))
	m.CycleMode()
	m.CycleMode()
	if err := m.StartExchange(); err != ErrTooFewParticipants {
		t.Fatalf("want ErrTooFewParticipants, got %v", err)
	}
	if m.Exchange() != nil {
		t.Fatal("refused start left an exchange behind")
	}
}

func TestStartExchangeGuards(t *testing.T) {
	m, _, t0 := newTestMachine(9, testContent(nil, []string{"Aki", "Ben"}))
	if err := m.StartExchange(); err != ErrWrongMode {
		t.Fatalf("want ErrWrongMode in fate mode, got %v", err)
	}
	m.CycleMode()
	m.CycleMode()
	m.Spin(t0)
	if err := m.StartExchange(); err != ErrBusy {
		t.Fatalf("want ErrBusy mid-draw, got %v", err)
	}
}

func TestStartExchangeRefusedWhileRunning(t *testing.T) {
	m, _, _ := newTestMachine(11, testContent(nil, []string{"Aki", "Ben", "Chiro"}))
	m.CycleMode()
	m.CycleMode()
	if err := m.StartExchange(); err != nil {
		t.Fatal(err)
	}
	first := m.Exchange()
	if err := m.StartExchange(); err != ErrExchangeRunning {
		t.Fatalf("want ErrExchangeRunning, got %v", err)
	}
	if m.Exchange() != first {
		t.Fatal("refused restart replaced the running exchange")
	}
	if err := m.ResetExchange(); err != nil {
		t.Fatal(err)
	}
	if err := m.StartExchange(); err != nil {
		t.Fatalf("start after reset: %v", err)
	}
}

func TestGiftDiscardedOnReentry(t *testing.T) {
	m, _, _ := newTestMachine(10, testContent(nil, []string{"Aki", "Ben", "Chiro"}))
	m.CycleMode()
	m.CycleMode()
	if err := m.StartExchange(); err != nil {
		t.Fatal(err)
	}
	m.CycleMode() // fate
	m.CycleMode() // squad
	m.CycleMode() // gift again
	if m.Exchange() != nil {
		t.Fatal("exchange survived mode re-entry")
	}
}

func TestCycleModeRefusedMidDraw(t *testing.T) {
	m, _, t0 := newTestMachine(11, testContent([]string{"x"}, []string{"Aki", "Ben"}))
	m.Spin(t0)
	if m.CycleMode() {
		t.Fatal("mode cycled during a draw")
	}
	if m.Mode() != ModeFate {
		t.Fatalf("mode %v", m.Mode())
	}
}

func TestResetRegeneratesAndCancels(t *testing.T) {
	m, _, t0 := newTestMachine(12, testContent([]string{"x"}, []string{"Aki", "Ben"}))
	m.Update(t0)
	before := map[string]bool{}
	for _, b := range m.Balls() {
		before[b.ID] = true
	}

	m.Spin(t0)
	m.Reset()
	if m.Phase() != PhaseIdle || m.Prize() != nil {
		t.Fatal("reset did not abandon the draw")
	}
	for _, b := range m.Balls() {
		if before[b.ID] {
			t.Fatal("reset kept an old ball identity")
		}
	}
	// The abandoned draw's timers must never fire.
	m.Update(t0.Add(time.Minute))
	if m.Phase() != PhaseIdle {
		t.Fatalf("stale timer fired: phase %v", m.Phase())
	}
}

func TestContentReloadDeferredUntilIdle(t *testing.T) {
	m, _, t0 := newTestMachine(13, testContent([]string{"x", "y"}, []string{"Aki", "Ben", "Chiro"}))
	m.Spin(t0)

	next := testContent([]string{"only"}, []string{"Dana", "Eli"})
	m.SetContent(next)
	if got := m.Content().Fates; len(got) != 2 {
		t.Fatal("content swapped mid-draw")
	}

	m.Update(t0.Add(SpinDelay + RevealDelay))
	m.Claim()
	m.Update(t0.Add(SpinDelay + RevealDelay))
	if got := m.Content().Fates; len(got) != 1 || got[0] != "only" {
		t.Fatalf("staged content not applied once idle: %v", got)
	}
	if got := m.SquadActive(); len(got) != 2 {
		t.Fatalf("active roster not rebuilt from new master: %v", got)
	}
}

// Reload signals arrive from a watcher goroutine, but the machine must only
// ever be touched from the frame loop: the loop drains the signal channel and
// calls SetContent itself, and mid-draw reloads stay staged until idle.
func TestContentReloadDrainedByFrameLoop(t *testing.T) {
	m, _, t0 := newTestMachine(16, testContent([]string{"x", "y"}, []string{"Aki", "Ben", "Chiro"}))
	next := testContent([]string{"only"}, []string{"Dana", "Eli"})

	changed := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	}()

	now := t0
	applied := 0
	fatesAtSpin := -1
	for frame := 0; frame < 400; frame++ {
		select {
		case <-changed:
			m.SetContent(next)
			applied++
		default:
		}
		if frame == 50 && m.Spin(now) {
			fatesAtSpin = len(m.Content().Fates)
		}
		if m.Phase() != PhaseIdle && len(m.Content().Fates) != fatesAtSpin {
			// A reload landing mid-draw must stay staged until the claim.
			t.Fatal("content swapped while a draw was in flight")
		}
		if m.Phase() == PhaseRevealed {
			m.Claim()
		}
		now = now.Add(16 * time.Millisecond)
		m.Update(now)
	}
	<-done

	if applied == 0 {
		t.Fatal("frame loop never drained a reload signal")
	}
	if got := m.Content().Fates; len(got) != 1 || got[0] != "only" {
		t.Fatalf("content not applied after the loop went idle: %v", got)
	}
	if got := m.SquadActive(); len(got) != 2 {
		t.Fatalf("active roster not rebuilt from new master: %v", got)
	}
}

func TestEventOrdering(t *testing.T) {
	m, rec, t0 := newTestMachine(14, testContent([]string{"x"}, []string{"Aki", "Ben"}))
	m.Spin(t0)
	m.Update(t0.Add(SpinDelay))
	m.Update(t0.Add(SpinDelay + RevealDelay))
	m.Claim()
	want := []string{"spin", "pop", "fanfare"}
	if len(rec.calls) != len(want) {
		t.Fatalf("events %v want %v", rec.calls, want)
	}
	for i, w := range want {
		if rec.calls[i] != w {
			t.Fatalf("events %v want %v", rec.calls, want)
		}
	}
}
