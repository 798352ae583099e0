package engine

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"tinygoose/board"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.HashEntries = 1 << 16
	return opts
}

func mustLoad(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.LoadFEN(fen)
	if err != nil {
		t.Fatalf("load %q: %v", fen, err)
	}
	return pos
}

func play(t *testing.T, pos *board.Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := pos.ParseMove(s)
		if err != nil {
			t.Fatalf("parse move %s: %v", s, err)
		}
		pos.MakeMove(m)
	}
}

func TestStartposReturnsLegalMove(t *testing.T) {
	is := is.New(t)
	pos := board.NewPosition()
	hash := pos.Hash()
	res := New(testOptions()).Think(pos, Limits{Depth: 4})

	is.True(slices.Contains(pos.LegalMoves(false), res.Move))
	is.Equal(res.Depth, 4)
	is.True(res.Nodes > 0)
	is.True(res.Score > -100 && res.Score < 100)
	is.Equal(pos.Hash(), hash) // search leaves the position untouched

	res = New(testOptions()).Think(pos, Limits{WhiteTime: 3000, BlackTime: 3000})
	is.True(slices.Contains(pos.LegalMoves(false), res.Move))
	is.True(res.Depth >= 1)
}

func TestFindsMateInOne(t *testing.T) {
	is := is.New(t)
	pos := mustLoad(t, "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")
	res := New(testOptions()).Think(pos, Limits{Depth: 3})

	is.Equal(res.Move.String(), "d1d8")
	is.Equal(res.Score, MateScore-1)
	is.Equal(FormatScore(res.Score), "mate 1")
}

func TestMateGuardOffStillFindsMate(t *testing.T) {
	opts := testOptions()
	opts.MateGuard = false
	pos := mustLoad(t, "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1")
	res := New(opts).Think(pos, Limits{Depth: 4})
	if res.Move.String() != "d1d8" || res.Score != MateScore-1 {
		t.Fatalf("expected d1d8 mating, got %s %s", res.Move.String(), FormatScore(res.Score))
	}
}

func TestMateOnHundredthPlyIsNotADraw(t *testing.T) {
	is := is.New(t)
	pos := mustLoad(t, "6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 99 80")
	res := New(testOptions()).Think(pos, Limits{Depth: 3})

	is.Equal(res.Move.String(), "d1d8")
	is.Equal(res.Score, MateScore-1)
}

func TestMateGuardSkipsMateRangeCutoffs(t *testing.T) {
	is := is.New(t)
	for _, guard := range []bool{true, false} {
		opts := testOptions()
		opts.MateGuard = guard
		e := New(opts)
		pos := board.NewPosition()
		e.tt.Store(pos.Hash(), board.NullMove, MateScore-10, 10, Exact, 1)

		score, err := e.negamax(pos, -Infinity, Infinity, 2, 1, true)
		is.NoErr(err)
		if guard {
			is.True(e.nodes > 1) // searched below the stored mate
			is.True(score < MateBound && score > -MateBound)
		} else {
			is.Equal(score, MateScore-10)
			is.Equal(e.nodes, uint64(1))
			is.Equal(e.stats.TTCutoffs, uint64(1))
		}
	}
}

func TestRepetitionScoresAsDraw(t *testing.T) {
	is := is.New(t)
	// White is a queen down and can only hold by repeating.
	pos := mustLoad(t, "6k1/8/8/8/q7/5N2/5PPP/6K1 w - - 0 1")
	play(t, pos, "f3g5", "g8h8", "g5f3", "h8g8")

	res := New(testOptions()).Think(pos, Limits{Depth: 4})
	is.Equal(res.Move.String(), "f3g5")
	is.Equal(res.Score, DrawScore)
}

func TestTerminalPositions(t *testing.T) {
	is := is.New(t)
	e := New(testOptions())

	mated := mustLoad(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	res := e.Think(mated, Limits{Depth: 3})
	is.Equal(res.Move, board.NullMove)
	is.Equal(res.Score, -MateScore)

	stalemate := mustLoad(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	res = e.Think(stalemate, Limits{Depth: 3})
	is.Equal(res.Move, board.NullMove)
	is.Equal(res.Score, DrawScore)
}

func TestSearchIsDeterministic(t *testing.T) {
	is := is.New(t)
	a := New(testOptions()).Think(mustLoad(t, kiwipete), Limits{Depth: 5})
	b := New(testOptions()).Think(mustLoad(t, kiwipete), Limits{Depth: 5})
	is.Equal(a.Move, b.Move)
	is.Equal(a.Score, b.Score)
	is.Equal(a.Nodes, b.Nodes)
}

func TestMoveTimeIsRespected(t *testing.T) {
	pos := mustLoad(t, kiwipete)
	start := time.Now()
	res := New(testOptions()).Think(pos, Limits{MoveTime: 100})
	elapsed := time.Since(start)

	if elapsed > 300*time.Millisecond {
		t.Fatalf("movetime 100 took %v", elapsed)
	}
	if res.Depth < 1 {
		t.Fatalf("expected at least one completed iteration, got depth %d", res.Depth)
	}
	if !slices.Contains(pos.LegalMoves(false), res.Move) {
		t.Fatalf("illegal move %s", res.Move.String())
	}
}

func TestAbortedFrameDoesNotStore(t *testing.T) {
	is := is.New(t)
	e := New(testOptions())
	pos := mustLoad(t, kiwipete)
	hash := pos.Hash()

	e.completedDepth = 1
	e.clock = TimeHandler{
		start:    time.Now().Add(-time.Second),
		soft:     time.Millisecond,
		hard:     time.Millisecond,
		limited:  true,
		maxDepth: MaxDepth,
	}
	_, err := e.negamax(pos, -Infinity, Infinity, 3, 1, true)
	is.True(errors.Is(err, errSearchAborted))
	_, ok := e.tt.Probe(hash)
	is.True(!ok)

	// The node budget runs out below the root.
	e.clock = TimeHandler{maxDepth: MaxDepth, maxNodes: 200}
	_, err = e.negamax(pos, -Infinity, Infinity, 4, 0, true)
	is.True(errors.Is(err, errSearchAborted))
	is.Equal(e.nodes, uint64(200))
	_, ok = e.tt.Probe(hash)
	is.True(!ok)
	is.Equal(pos.Hash(), hash)
}

func TestInterruptedSearchReturnsLastIteration(t *testing.T) {
	is := is.New(t)
	for _, limits := range []Limits{{Nodes: 20000}, {MoveTime: 15}, {MoveTime: 60}} {
		var last Report
		opts := testOptions()
		opts.OnIteration = func(r Report) {
			last = r
		}
		res := New(opts).Think(mustLoad(t, kiwipete), limits)

		is.True(res.Depth >= 1)
		is.Equal(res.Depth, last.Depth)
		is.Equal(res.Move, last.PV[0])
		is.Equal(res.Score, last.Score)
		if limits.Nodes > 0 {
			is.Equal(res.Nodes, uint64(limits.Nodes))
		}
	}
}

func TestAspirationWidensBothWays(t *testing.T) {
	is := is.New(t)

	low := New(testOptions())
	score, err := low.aspirationSearch(board.NewPosition(), 3, 1000, 1001)
	is.NoErr(err)
	is.True(low.stats.AspirationFailLows > 0)
	is.Equal(low.stats.AspirationFailHighs, uint64(0))
	is.True(score > -200 && score < 200)

	high := New(testOptions())
	score, err = high.aspirationSearch(board.NewPosition(), 3, -1001, -1000)
	is.NoErr(err)
	is.True(high.stats.AspirationFailHighs > 0)
	is.Equal(high.stats.AspirationFailLows, uint64(0))
	is.True(score > -200 && score < 200)
}

func TestOnIterationReportsEachDepth(t *testing.T) {
	is := is.New(t)
	var reports []Report
	opts := testOptions()
	opts.OnIteration = func(r Report) {
		reports = append(reports, r)
	}
	pos := board.NewPosition()
	hash := pos.Hash()
	res := New(opts).Think(pos, Limits{Depth: 4})

	is.Equal(len(reports), 4)
	for i, r := range reports {
		is.Equal(r.Depth, i+1)
		is.True(len(r.PV) >= 1 && len(r.PV) <= r.Depth)
	}
	last := reports[len(reports)-1]
	is.Equal(last.PV[0], res.Move)
	is.Equal(last.Score, res.Score)
	is.Equal(pos.Hash(), hash)
}

func TestNewGameClearsTables(t *testing.T) {
	is := is.New(t)
	e := New(testOptions())
	pos := board.NewPosition()
	e.Think(pos, Limits{Depth: 3})

	_, ok := e.tt.Probe(pos.Hash())
	is.True(ok)

	e.NewGame()
	_, ok = e.tt.Probe(pos.Hash())
	is.True(!ok)
	is.Equal(e.history, HistoryTable{})
	is.Equal(e.killers, KillerTable{})
}

func TestSetHashEntries(t *testing.T) {
	is := is.New(t)
	e := New(testOptions())
	tt := e.tt
	e.SetHashEntries(1 << 16)
	is.True(e.tt == tt) // same size keeps the table
	e.SetHashEntries(1 << 10)
	is.Equal(e.tt.Len(), 1<<10)
}

func TestFormatScore(t *testing.T) {
	is := is.New(t)
	is.Equal(FormatScore(37), "cp 37")
	is.Equal(FormatScore(-120), "cp -120")
	is.Equal(FormatScore(MateScore-1), "mate 1")
	is.Equal(FormatScore(MateScore-3), "mate 2")
	is.Equal(FormatScore(-MateScore+2), "mate -1")
}

func TestBench(t *testing.T) {
	is := is.New(t)
	res, err := Bench(context.Background(), BenchConfig{Depth: 2, Workers: 2})
	is.NoErr(err)
	is.Equal(res.Positions, len(BenchPositions))
	is.True(res.Nodes > 0)
	is.True(res.NPS > 0)

	serial, err := Bench(context.Background(), BenchConfig{Depth: 2, Workers: 1})
	is.NoErr(err)
	is.Equal(serial.Nodes, res.Nodes)

	var buf bytes.Buffer
	is.NoErr(res.WriteReport(&buf))
	is.True(strings.Contains(buf.String(), "nodes"))
}

func TestBenchHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Bench(ctx, BenchConfig{Depth: 2, Workers: 1}); err == nil {
		t.Fatalf("expected an error from a cancelled bench")
	}
}
