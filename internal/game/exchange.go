package game

import "errors"

// ErrTooFewParticipants is the validation error for starting an exchange with
// fewer than two names. It is shown to the user as-is.
var ErrTooFewParticipants = errors.New("a gift exchange needs at least 2 participants")

// Exchange is one running gift exchange: a uniform random permutation of the
// master roster treated as a cycle (index i gives to (i+1) mod N) and a
// cursor marking the current giver. The permutation deliberately makes no
// fairness promises beyond uniformity; the cyclic offset alone already rules
// out self-assignment.
//
// Lifecycle: NewExchange -> Running (cursor < N) -> Complete (cursor == N).
// A nil *Exchange is the not-started state.
type Exchange struct {
	order  []string
	cursor int
}

// NewExchange validates the roster and produces a shuffled exchange with the
// cursor at zero. The input slice is not modified.
func NewExchange(master []string, rng RandomSource) (*Exchange, error) {
	if len(master) < 2 {
		return nil, ErrTooFewParticipants
	}
	order := append([]string(nil), master...)
	shuffleStrings(order, rng)
	return &Exchange{order: order}, nil
}

// Len returns the number of participants.
func (e *Exchange) Len() int {
	return len(e.order)
}

// Remaining returns how many givers have not yet drawn.
func (e *Exchange) Remaining() int {
	return len(e.order) - e.cursor
}

// Complete reports whether every participant has given.
func (e *Exchange) Complete() bool {
	return e.cursor >= len(e.order)
}

// Cursor returns the current giver index (== Len once complete).
func (e *Exchange) Cursor() int {
	return e.cursor
}

// CurrentGiver returns the participant whose turn it is, or ok false once the
// exchange is complete.
func (e *Exchange) CurrentGiver() (string, bool) {
	if e.Complete() {
		return "", false
	}
	return e.order[e.cursor], true
}

// NextRecipient returns who the current giver gives to: the participant at
// (cursor+1) mod N. ok is false once the exchange is complete.
func (e *Exchange) NextRecipient() (string, bool) {
	if e.Complete() {
		return "", false
	}
	return e.order[(e.cursor+1)%len(e.order)], true
}

// Advance moves to the next giver. Called exactly once per claimed prize;
// advancing a completed exchange is a no-op.
func (e *Exchange) Advance() {
	if e.cursor < len(e.order) {
		e.cursor++
	}
}

// Order returns the generated permutation (read-only view for display).
func (e *Exchange) Order() []string {
	return e.order
}
