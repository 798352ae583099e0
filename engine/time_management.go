package engine

import (
	"time"

	"tinygoose/board"
)

// Limits are the parameters of one go command, in milliseconds and plies.
// Zero means unset.
type Limits struct {
	WhiteTime int
	BlackTime int
	WhiteInc  int
	BlackInc  int
	MoveTime  int
	Depth     int
	Nodes     int
}

// Engine-side safety knobs.
const (
	defaultRemainingMs = 300000
	overheadMs         = 30
	minMoveMs          = 5
	maxFrac            = 0.7
	panicThreshMs      = 1000
	panicFrac          = 0.90
)

type TimeHandler struct {
	start    time.Time
	soft     time.Duration
	hard     time.Duration
	limited  bool
	maxDepth int
	maxNodes uint64
}

// StartTime fixes the budgets for one search. A depth or node limit without
// a clock searches without a deadline.
func (th *TimeHandler) StartTime(limits Limits, side board.Color, phase int) {
	th.start = time.Now()
	th.maxDepth = MaxDepth
	if limits.Depth > 0 {
		th.maxDepth = Min(limits.Depth, MaxDepth)
	}
	th.maxNodes = 0
	if limits.Nodes > 0 {
		th.maxNodes = uint64(limits.Nodes)
	}

	rem, inc := limits.WhiteTime, limits.WhiteInc
	if side == board.Black {
		rem, inc = limits.BlackTime, limits.BlackInc
	}

	switch {
	case limits.MoveTime > 0:
		th.limited = true
		th.hard = time.Duration(limits.MoveTime) * time.Millisecond
		th.soft = th.hard / 2
		return
	case rem <= 0 && (limits.Depth > 0 || limits.Nodes > 0):
		th.limited = false
		return
	case rem <= 0:
		rem = defaultRemainingMs
	}

	movesLeft := estimateMovesRemaining(phase)

	var moveTime int
	if inc > 0 {
		if rem < panicThreshMs {
			moveTime = int(float64(inc) * panicFrac)
		} else {
			moveTime = rem/movesLeft + inc
		}
	} else {
		moveTime = rem / 40
	}

	if moveTime > int(float64(rem)*maxFrac) {
		moveTime = int(float64(rem) * maxFrac)
	}
	if moveTime > rem-overheadMs {
		moveTime = rem - overheadMs
	}
	if moveTime < minMoveMs {
		moveTime = minMoveMs
	}

	th.limited = true
	th.hard = time.Duration(moveTime) * time.Millisecond
	th.soft = th.hard / 3
}

func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

// HardTimeExceeded is polled inside the search.
func (th *TimeHandler) HardTimeExceeded() bool {
	return th.limited && time.Since(th.start) >= th.hard
}

// NodeLimitReached is polled alongside HardTimeExceeded.
func (th *TimeHandler) NodeLimitReached(nodes uint64) bool {
	return th.maxNodes > 0 && nodes >= th.maxNodes
}

// SoftTimeExceeded is checked between iterations.
func (th *TimeHandler) SoftTimeExceeded() bool {
	return th.limited && time.Since(th.start) >= th.soft
}

func estimateMovesRemaining(phase int) int {
	// Linearly interpolate between 20 (endgame) and 45 (opening/midgame)
	return (phase*25)/24 + 20
}
