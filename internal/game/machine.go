package game

import (
	"errors"
	"time"

	"gachapon/internal/config"
	"gachapon/internal/physics"
)

// Presentation timing: the crank-and-tumble window after a spin, and the
// delay between the capsule dropping and the prize being readable.
const (
	SpinDelay   = 2 * time.Second
	RevealDelay = 1500 * time.Millisecond
)

// agitateStrength is the impulse scale applied to every ball on spin.
const agitateStrength = 2.2

var (
	// ErrBusy: the operation needs the machine to be idle.
	ErrBusy = errors.New("a draw is already in progress")
	// ErrWrongMode: the operation belongs to a different mode.
	ErrWrongMode = errors.New("switch to gift mode first")
	// ErrExchangeRunning: starting over requires an explicit reset first.
	ErrExchangeRunning = errors.New("exchange already running, reset it first")
)

// Events receives the discrete triggers the presentation layer reacts to
// (tones, for the audio sink). All calls are fire-and-forget.
type Events interface {
	Click()
	SpinStart()
	PrizeSpawn()
	Fanfare()
}

// NopEvents discards all triggers.
type NopEvents struct{}

func (NopEvents) Click()      {}
func (NopEvents) SpinStart()  {}
func (NopEvents) PrizeSpawn() {}
func (NopEvents) Fanfare()    {}

// Prize is the outcome of one draw, captured at spin time before any removal
// is visible. Empty marks the no-targets sentinel: the candidate list behind
// the draw was empty, and claiming finalizes nothing.
type Prize struct {
	Seq    uint64
	Text   string
	Color  config.Color
	BallID string
	Empty  bool
}

// Machine is the gacha toy's single control loop state: mode, phase, the
// ball population, the pending draw, and the per-mode bookkeeping (active
// squad roster, gift exchange). All methods must be called from the frame
// thread; there is no internal locking because there is no second thread.
type Machine struct {
	content config.Content
	pending *config.Content // content reload staged until idle

	mode  Mode
	phase Phase
	seq   uint64

	squadActive []string
	exchange    *Exchange // nil = not started

	pop    *Population
	sched  *Scheduler
	rng    RandomSource
	events Events

	prize *Prize
}

// NewMachine wires a machine over world with the given content. The active
// squad roster starts as a copy of the master roster; the initial population
// is reconciled to the fate-mode target.
func NewMachine(content config.Content, world *physics.World, rng RandomSource, events Events, now time.Time) *Machine {
	if events == nil {
		events = NopEvents{}
	}
	m := &Machine{
		content:     content,
		squadActive: append([]string(nil), content.Names...),
		pop:         NewPopulation(world, content.Spawn, content.Palette, rng),
		sched:       NewScheduler(now),
		rng:         rng,
		events:      events,
	}
	m.pop.Reconcile(m.targetCount())
	return m
}

// Mode returns the active mode.
func (m *Machine) Mode() Mode { return m.mode }

// Phase returns the draw cycle phase.
func (m *Machine) Phase() Phase { return m.phase }

// Seq returns the monotonic draw counter.
func (m *Machine) Seq() uint64 { return m.seq }

// Balls returns the live population for the renderer.
func (m *Machine) Balls() []*Ball { return m.pop.Balls() }

// Prize returns the pending or revealed prize, nil when idle with no draw.
func (m *Machine) Prize() *Prize { return m.prize }

// Exchange returns the running gift exchange, nil when not started.
func (m *Machine) Exchange() *Exchange { return m.exchange }

// SquadActive returns the in-play roster (read-only view).
func (m *Machine) SquadActive() []string { return m.squadActive }

// Content returns the active content.
func (m *Machine) Content() config.Content { return m.content }

// Update advances the frame: due timers fire, a staged content reload is
// applied if the machine is idle, and the population is reconciled to the
// current target. Call once per frame with the frame time.
func (m *Machine) Update(now time.Time) {
	m.sched.Update(now)
	if m.phase == PhaseIdle && m.pending != nil {
		m.applyContent(*m.pending)
		m.pending = nil
	}
	m.pop.Reconcile(m.targetCount())
}

// Spin starts a draw. Refused (false, nothing changes) unless the machine is
// idle; that is the sole mutual-exclusion rule. The prize is fully determined here,
// before any removal is visible: text picked per mode, color bound from the
// designated next-to-be-removed ball.
func (m *Machine) Spin(now time.Time) bool {
	if m.phase != PhaseIdle {
		return false
	}
	m.phase = PhaseDrawing
	m.seq++

	text, ok := m.pickText()
	p := &Prize{Seq: m.seq, Text: text, Empty: !ok}
	if ball := m.pop.NextRemoval(); ball != nil {
		p.BallID = ball.ID
		p.Color = ball.Color
	} else {
		p.Color = config.Color{Name: "grey", Hex: "#808080"}
	}
	m.prize = p

	m.events.SpinStart()
	m.pop.Agitate(agitateStrength)
	m.sched.After(now, SpinDelay, m.dispense)
	m.sched.After(now, SpinDelay+RevealDelay, m.reveal)
	return true
}

// dispense fires when the capsule drops into the chute: a presentation cue
// only, the outcome was fixed at spin time.
func (m *Machine) dispense() {
	m.events.PrizeSpawn()
}

// reveal flips to Revealed; the next Update shrinks the population by one in
// the modes that anticipate the pending removal.
func (m *Machine) reveal() {
	m.phase = PhaseRevealed
}

// Claim finalizes the revealed prize: Squad eliminates the drawn name from
// the active roster (never the master), Gift advances the exchange cursor,
// sentinel prizes finalize nothing. Returns false unless a prize is showing.
func (m *Machine) Claim() bool {
	if m.phase != PhaseRevealed {
		return false
	}
	if p := m.prize; p != nil && !p.Empty {
		switch m.mode {
		case ModeSquad:
			m.squadActive = removeFirst(m.squadActive, p.Text)
		case ModeGift:
			if m.exchange != nil {
				m.exchange.Advance()
			}
		}
	}
	m.events.Fanfare()
	m.prize = nil
	m.phase = PhaseIdle
	return true
}

// CycleMode rotates Fate -> Squad -> Gift -> Fate. Only accepted while idle
// so a mode switch can never cross an in-flight draw. Entering Squad reloads
// the active roster only when it has been played empty, preserving partial
// elimination across switches; entering Gift discards any exchange.
func (m *Machine) CycleMode() bool {
	if m.phase != PhaseIdle {
		return false
	}
	m.mode = m.mode.Next()
	switch m.mode {
	case ModeSquad:
		if len(m.squadActive) == 0 {
			m.reloadSquad()
		}
	case ModeGift:
		m.exchange = nil
	}
	m.events.Click()
	return true
}

// StartExchange begins a new gift exchange over the master roster. Requires
// gift mode, an idle machine, and no exchange still running (a completed one
// may be started over). Roster validation errors are user-facing and leave
// all state untouched.
func (m *Machine) StartExchange() error {
	if m.mode != ModeGift {
		return ErrWrongMode
	}
	if m.phase != PhaseIdle {
		return ErrBusy
	}
	if m.exchange != nil && !m.exchange.Complete() {
		return ErrExchangeRunning
	}
	ex, err := NewExchange(m.content.Names, m.rng)
	if err != nil {
		return err
	}
	m.exchange = ex
	m.events.Click()
	return nil
}

// ResetExchange drops the exchange back to the not-started state.
func (m *Machine) ResetExchange() error {
	if m.phase != PhaseIdle {
		return ErrBusy
	}
	m.exchange = nil
	return nil
}

// Reset is the explicit reset trigger: pending timers are invalidated, any
// draw is abandoned, the current mode's bookkeeping reloads, and the whole
// population regenerates (the only path that discards ball identities).
func (m *Machine) Reset() {
	m.sched.Clear()
	m.prize = nil
	m.phase = PhaseIdle
	switch m.mode {
	case ModeSquad:
		m.reloadSquad()
	case ModeGift:
		m.exchange = nil
	}
	if m.pending != nil {
		m.applyContent(*m.pending)
		m.pending = nil
	}
	m.pop.Regenerate(m.targetCount())
	m.events.Click()
}

// SetContent stages new content (edited lists, palette, spawn volume). It is
// applied immediately when idle, otherwise deferred to the first idle Update,
// so a hot reload can never desync an in-flight draw.
func (m *Machine) SetContent(c config.Content) {
	if m.phase == PhaseIdle {
		m.applyContent(c)
		return
	}
	m.pending = &c
}

// Shutdown invalidates pending timers on teardown.
func (m *Machine) Shutdown() {
	m.sched.Clear()
}

// applyContent swaps the content in. The active roster and any exchange are
// rebuilt from the new master roster; future spawns use the new palette and
// spawn volume.
func (m *Machine) applyContent(c config.Content) {
	m.content = c
	m.reloadSquad()
	m.exchange = nil
	m.pop.SetShape(c.Spawn, c.Palette)
}

func (m *Machine) reloadSquad() {
	m.squadActive = append([]string(nil), m.content.Names...)
}

// pickText selects the prize text for the active mode: uniform over the fate
// list or active roster, the fixed next recipient in gift mode. ok false is
// the no-targets sentinel.
func (m *Machine) pickText() (string, bool) {
	switch m.mode {
	case ModeFate:
		return pickString(m.content.Fates, m.rng)
	case ModeSquad:
		return pickString(m.squadActive, m.rng)
	case ModeGift:
		if m.exchange == nil {
			return "", false
		}
		return m.exchange.NextRecipient()
	}
	return "", false
}

// targetCount derives the ball population the current mode and phase want:
// Fate a constant, Squad the active roster size, Gift the exchange remainder
// (master roster size as a preview before a start). Squad and Gift anticipate
// the pending removal by one while a prize is revealed.
func (m *Machine) targetCount() int {
	switch m.mode {
	case ModeFate:
		return m.content.FateBallCount
	case ModeSquad:
		n := len(m.squadActive)
		if m.phase == PhaseRevealed && n > 0 {
			n--
		}
		return n
	case ModeGift:
		if m.exchange == nil {
			return len(m.content.Names)
		}
		n := m.exchange.Remaining()
		if m.phase == PhaseRevealed && n > 0 {
			n--
		}
		return n
	}
	return 0
}

// removeFirst removes the first occurrence of s, preserving order.
func removeFirst(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
