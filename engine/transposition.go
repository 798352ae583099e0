package engine

import (
	"unsafe"

	"tinygoose/board"
)

type Bound uint8

const (
	BoundNone Bound = iota
	Exact
	LowerBound
	UpperBound
)

// DefaultHashEntries is the table capacity when no Hash option is given.
const DefaultHashEntries = 1 << 22

type TTEntry struct {
	Hash  uint64
	Move  board.Move
	Score int32
	Depth int16
	Bound Bound
}

// TransTable is a fixed-capacity, always-replace cache of search results.
// Scores in the mate range are stored relative to the node that produced
// them.
type TransTable struct {
	entries []TTEntry
	mask    uint64
}

// NewTransTable allocates the largest power of two entries not above size.
func NewTransTable(size int) *TransTable {
	n := 1
	for n*2 <= size {
		n *= 2
	}
	return &TransTable{entries: make([]TTEntry, n), mask: uint64(n - 1)}
}

// EntriesForMiB converts a UCI Hash size to an entry count.
func EntriesForMiB(mb int) int {
	return Max(1, mb*1024*1024/int(unsafe.Sizeof(TTEntry{})))
}

func (tt *TransTable) Len() int {
	return len(tt.entries)
}

func (tt *TransTable) SizeBytes() uint64 {
	return uint64(len(tt.entries)) * uint64(unsafe.Sizeof(TTEntry{}))
}

// Clear empties the table in place.
func (tt *TransTable) Clear() {
	clear(tt.entries)
}

// Probe returns the entry stored for hash, if the slot holds that position.
func (tt *TransTable) Probe(hash uint64) (TTEntry, bool) {
	e := tt.entries[hash&tt.mask]
	if e.Bound == BoundNone || e.Hash != hash {
		return TTEntry{}, false
	}
	return e, true
}

// Lookup returns a score usable at this node.
func (tt *TransTable) Lookup(hash uint64, depth int, alpha, beta int32, ply int) (int32, bool) {
	e, ok := tt.Probe(hash)
	if !ok {
		return 0, false
	}
	return e.Cutoff(depth, alpha, beta, ply)
}

// Cutoff reports whether the entry settles a node searched to depth with
// the window (alpha, beta). The score is converted back to root-relative.
func (e TTEntry) Cutoff(depth int, alpha, beta int32, ply int) (int32, bool) {
	if int(e.Depth) < depth {
		return 0, false
	}
	score := scoreFromTT(e.Score, ply)
	switch e.Bound {
	case Exact:
		return score, true
	case LowerBound:
		return score, score >= beta
	case UpperBound:
		return score, score <= alpha
	}
	return 0, false
}

// Store overwrites the slot for hash unconditionally.
func (tt *TransTable) Store(hash uint64, move board.Move, score int32, depth int, bound Bound, ply int) {
	tt.entries[hash&tt.mask] = TTEntry{
		Hash:  hash,
		Move:  move,
		Score: scoreToTT(score, ply),
		Depth: int16(depth),
		Bound: bound,
	}
}

// Hashfull is the UCI per-mille occupancy, sampled over the first slots.
func (tt *TransTable) Hashfull() int {
	n := Min(1000, len(tt.entries))
	used := 0
	for _, e := range tt.entries[:n] {
		if e.Bound != BoundNone {
			used++
		}
	}
	return used * 1000 / n
}

func scoreToTT(score int32, ply int) int32 {
	switch {
	case score >= MateBound:
		return score + int32(ply)
	case score <= -MateBound:
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	switch {
	case score >= MateBound:
		return score - int32(ply)
	case score <= -MateBound:
		return score + int32(ply)
	}
	return score
}
