package game

// Mode selects which game the machine is playing.
type Mode int

const (
	// ModeFate draws a random fortune from the fate list.
	ModeFate Mode = iota
	// ModeSquad eliminates one member of the active roster per draw.
	ModeSquad
	// ModeGift walks a secret-santa style cyclic assignment over the roster.
	ModeGift
)

// Next rotates Fate -> Squad -> Gift -> Fate.
func (m Mode) Next() Mode {
	switch m {
	case ModeFate:
		return ModeSquad
	case ModeSquad:
		return ModeGift
	default:
		return ModeFate
	}
}

func (m Mode) String() string {
	switch m {
	case ModeFate:
		return "fate"
	case ModeSquad:
		return "squad"
	case ModeGift:
		return "gift"
	}
	return "unknown"
}

// Phase is the draw cycle state. There is exactly one instance, owned by the
// Machine, and only the Machine's control flow mutates it.
type Phase int

const (
	// PhaseIdle accepts spins.
	PhaseIdle Phase = iota
	// PhaseDrawing covers the crank-and-tumble window before the reveal.
	PhaseDrawing
	// PhaseRevealed shows the prize and waits for the player to claim it.
	PhaseRevealed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDrawing:
		return "drawing"
	case PhaseRevealed:
		return "revealed"
	}
	return "unknown"
}
