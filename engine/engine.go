// Package engine is the search core: iterative deepening over a negamax
// alpha-beta search with quiescence, a transposition table, move-ordering
// heuristics and a tapered evaluation.
package engine

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dylhunn/dragontoothmg"
	"github.com/rs/zerolog"

	"tinygoose/board"
	"tinygoose/weights"
)

// Board is the game state the search runs on. Moves are made and unmade in
// strict stack order on the shared instance.
type Board interface {
	MakeMove(m board.Move)
	UndoMove()
	SkipTurn()
	UndoSkipTurn()
	LegalMoves(capturesOnly bool) []board.Move
	InCheck() bool
	IsRepeatedOrDrawn() bool
	Hash() uint64
	SideToMove() board.Color
	Pieces(c board.Color) *dragontoothmg.Bitboards
	MovedPiece(m board.Move) board.Piece
	CapturedPiece(m board.Move) board.Piece
}

type Options struct {
	HashEntries int
	// MateGuard ignores transposition scores in the mate range.
	MateGuard  bool
	Aspiration bool
	Logger     zerolog.Logger
	// OnIteration is called after every completed depth.
	OnIteration func(Report)
}

func DefaultOptions() Options {
	return Options{
		HashEntries: DefaultHashEntries,
		MateGuard:   true,
		Aspiration:  true,
		Logger:      zerolog.Nop(),
	}
}

// Report describes one completed iteration.
type Report struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	NPS      uint64
	Hashfull int
	PV       []board.Move
}

type Result struct {
	Move    board.Move
	Score   int32
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

// Engine owns the long-lived search tables. Only one search may run on an
// Engine at a time.
type Engine struct {
	opts    Options
	log     zerolog.Logger
	tt      *TransTable
	history HistoryTable
	killers KillerTable
	table   *weights.Table
	pending *weights.Table
	clock   TimeHandler
	stats   CutStatistics

	nodes          uint64
	completedDepth int
	rootBest       board.Move
}

func New(opts Options) *Engine {
	if opts.HashEntries <= 0 {
		opts.HashEntries = DefaultHashEntries
	}
	e := &Engine{
		opts:  opts,
		log:   opts.Logger,
		tt:    NewTransTable(opts.HashEntries),
		table: weights.Default(),
	}
	e.log.Debug().
		Int("entries", e.tt.Len()).
		Str("size", humanize.Bytes(e.tt.SizeBytes())).
		Msg("transposition table allocated")
	return e
}

// NewGame clears the transposition, history and killer tables in place.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.history.ClearHistoryTable()
	e.killers.ClearKillers()
}

// SetHashEntries reallocates the transposition table if its size changes.
func (e *Engine) SetHashEntries(n int) {
	if NewTransTable(n).Len() == e.tt.Len() {
		return
	}
	e.tt = NewTransTable(n)
	e.opts.HashEntries = n
	e.log.Debug().
		Int("entries", e.tt.Len()).
		Str("size", humanize.Bytes(e.tt.SizeBytes())).
		Msg("transposition table resized")
}

func (e *Engine) SetMateGuard(on bool) {
	e.opts.MateGuard = on
}

func (e *Engine) SetAspiration(on bool) {
	e.opts.Aspiration = on
}

func (e *Engine) SetLogger(log zerolog.Logger) {
	e.log = log
}

func (e *Engine) SetOnIteration(fn func(Report)) {
	e.opts.OnIteration = fn
}

// SetTable replaces the evaluation table immediately.
func (e *Engine) SetTable(t *weights.Table) {
	e.table = t
}

// QueueTable stages a table to become active on the next ApplyPendingTable.
func (e *Engine) QueueTable(t *weights.Table) {
	e.pending = t
}

// ApplyPendingTable swaps in a queued table. It reports whether a swap
// happened.
func (e *Engine) ApplyPendingTable() bool {
	if e.pending == nil {
		return false
	}
	e.table, e.pending = e.pending, nil
	e.log.Info().Msg("evaluation weights reloaded")
	return true
}

func (e *Engine) Table() *weights.Table {
	return e.table
}

// Evaluate returns the static evaluation with the active table.
func (e *Engine) Evaluate(b Board) int32 {
	return Evaluate(b, e.table)
}

// Stats returns the cut counters of the last search.
func (e *Engine) Stats() CutStatistics {
	return e.stats
}
