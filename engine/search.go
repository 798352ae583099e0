package engine

import (
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"tinygoose/board"
)

// errSearchAborted unwinds the search once the hard deadline passes or the
// node budget is spent.
var errSearchAborted = errors.New("search aborted")

// =============================================================================
// MARGINS
// =============================================================================
var LateMovePruningMargins = [9]int{0, 3, 5, 9, 14, 20, 27, 35, 44}

const (
	rfpMaxDepth        = 7
	rfpMargin          = 74
	nullMoveMinDepth   = 2
	nullMoveEvalScale  = 175
	futilityMaxDepth   = 8
	futilityMargin     = 141
	historyPruneDepth  = 3
	historyPruneMargin = 64
	lmrMinMoves        = 5
	lmrMinDepth        = 2

	aspirationWindow = 17
	aspirationStep   = 62
)

// Think searches b until the depth limit or the time budget runs out and
// returns the move of the deepest completed iteration.
func (e *Engine) Think(b Board, limits Limits) Result {
	e.clock.StartTime(limits, b.SideToMove(), GamePhase(b))
	e.nodes = 0
	e.completedDepth = 0
	e.stats = CutStatistics{}
	e.rootBest = board.NullMove

	rootMoves := b.LegalMoves(false)
	if len(rootMoves) == 0 {
		score := DrawScore
		if b.InCheck() {
			score = -MateScore
		}
		return Result{Move: board.NullMove, Score: score}
	}
	best := Result{Move: rootMoves[0]}

	alpha, beta := -Infinity, Infinity
	for depth := 1; depth <= e.clock.maxDepth; depth++ {
		if e.completedDepth > 0 && e.clock.SoftTimeExceeded() {
			break
		}

		score, err := e.aspirationSearch(b, depth, alpha, beta)
		if err != nil {
			e.log.Debug().Int("depth", depth).Uint64("nodes", e.nodes).Msg("search aborted")
			break
		}

		elapsed := e.clock.Elapsed()
		e.completedDepth = depth
		best = Result{Move: e.rootBest, Score: score, Depth: depth, Nodes: e.nodes, Elapsed: elapsed}
		e.report(b, best)

		if e.opts.Aspiration {
			alpha, beta = score-aspirationWindow, score+aspirationWindow
		}
	}

	best.Nodes = e.nodes
	best.Elapsed = e.clock.Elapsed()
	return best
}

// aspirationSearch searches the root inside (alpha, beta) and widens the
// failing side with a doubling step until the score lands inside.
func (e *Engine) aspirationSearch(b Board, depth int, alpha, beta int32) (int32, error) {
	step := int32(aspirationStep)
	for {
		score, err := e.negamax(b, alpha, beta, depth, 0, true)
		if err != nil {
			return 0, err
		}
		switch {
		case score <= alpha && alpha > -Infinity:
			e.stats.AspirationFailLows++
			alpha = Max(alpha-step, -Infinity)
		case score >= beta && beta < Infinity:
			e.stats.AspirationFailHighs++
			beta = Min(beta+step, Infinity)
		default:
			return score, nil
		}
		step *= 2
	}
}

func (e *Engine) report(b Board, res Result) {
	ms := Max(res.Elapsed.Milliseconds(), 1)
	nps := res.Nodes * 1000 / uint64(ms)
	e.log.Debug().
		Int("depth", res.Depth).
		Int32("score", res.Score).
		Uint64("nodes", res.Nodes).
		Uint64("nps", nps).
		Msg("iteration complete")
	if e.opts.OnIteration == nil {
		return
	}
	e.opts.OnIteration(Report{
		Depth:    res.Depth,
		Score:    res.Score,
		Nodes:    res.Nodes,
		Elapsed:  res.Elapsed,
		NPS:      nps,
		Hashfull: e.tt.Hashfull(),
		PV:       e.principalVariation(b, res.Move, res.Depth),
	})
}

// principalVariation follows transposition moves from the root, stopping at
// the first missing, illegal or repeating move.
func (e *Engine) principalVariation(b Board, first board.Move, depth int) []board.Move {
	pv := []board.Move{first}
	b.MakeMove(first)
	for len(pv) < depth && !b.IsRepeatedOrDrawn() {
		entry, ok := e.tt.Probe(b.Hash())
		if !ok || !slices.Contains(b.LegalMoves(false), entry.Move) {
			break
		}
		pv = append(pv, entry.Move)
		b.MakeMove(entry.Move)
	}
	for range pv {
		b.UndoMove()
	}
	return pv
}

// negamax searches with the window (alpha, beta) from the side to move's
// point of view. Once depth reaches zero it becomes a quiescence search.
func (e *Engine) negamax(b Board, alpha, beta int32, depth, ply int, allowNull bool) (int32, error) {
	if e.completedDepth > 0 && (e.clock.HardTimeExceeded() || e.clock.NodeLimitReached(e.nodes)) {
		return 0, errSearchAborted
	}
	e.nodes++

	root := ply == 0
	pvNode := beta-alpha > 1

	// Mate and stalemate come before any draw claim.
	inCheck := b.InCheck()
	moves := b.LegalMoves(false)
	if len(moves) == 0 {
		if inCheck {
			return -MateScore + int32(ply), nil
		}
		return DrawScore, nil
	}
	if !root && b.IsRepeatedOrDrawn() {
		return DrawScore, nil
	}
	if ply >= MaxPly-1 {
		return Evaluate(b, e.table), nil
	}

	if inCheck {
		depth = Max(depth, 0) + 1
	}
	qsearch := depth <= 0
	if qsearch {
		depth = 0
	}

	hash := b.Hash()
	ttEntry, ttHit := e.tt.Probe(hash)
	ttMove := board.NullMove
	if ttHit {
		ttMove = ttEntry.Move
		if !root {
			if score, ok := ttEntry.Cutoff(depth, alpha, beta, ply); ok && !(e.opts.MateGuard && isMateScore(score)) {
				e.stats.TTCutoffs++
				return score, nil
			}
		}
	}

	var staticEval int32
	canFPrune := false
	bestScore := -Infinity
	if qsearch {
		staticEval = Evaluate(b, e.table)
		if staticEval >= beta {
			e.stats.QStandPatCutoffs++
			return staticEval, nil
		}
		alpha = Max(alpha, staticEval)
		bestScore = staticEval
	} else if !pvNode && !inCheck {
		staticEval = Evaluate(b, e.table)

		if depth <= rfpMaxDepth && staticEval-rfpMargin*int32(depth) >= beta {
			e.stats.StaticNullCutoffs++
			return staticEval, nil
		}

		if depth >= nullMoveMinDepth && allowNull && staticEval >= beta && hasNonPawnMaterial(b) {
			r := 3 + depth/4 + Min(6, int((staticEval-beta)/nullMoveEvalScale))
			b.SkipTurn()
			score, err := e.negamax(b, -beta, -beta+1, depth-r, ply+1, false)
			b.UndoSkipTurn()
			if err != nil {
				return 0, err
			}
			if score = -score; score >= beta {
				e.stats.NullMoveCutoffs++
				if isMateScore(score) {
					score = beta
				}
				return score, nil
			}
		}

		canFPrune = depth <= futilityMaxDepth && staticEval+futilityMargin*int32(depth) <= alpha
	}

	side := b.SideToMove()
	bestMove := board.NullMove
	bound := UpperBound
	movesTried, quietsTried := 0, 0
	var quiets []board.Move

	for _, sm := range e.orderMoves(b, moves, ttMove, ply) {
		if qsearch && sm.quiet {
			continue
		}
		if !qsearch && sm.quiet && movesTried > 0 {
			if canFPrune {
				e.stats.FutilityPrunes++
				continue
			}
			if !pvNode && !inCheck && depth < len(LateMovePruningMargins) && quietsTried >= LateMovePruningMargins[depth] {
				e.stats.LateMovePrunes++
				continue
			}
			if !pvNode && !inCheck && depth <= historyPruneDepth && staticEval <= alpha &&
				e.history.Score(side, b.MovedPiece(sm.move), sm.move.To()) < -historyPruneMargin*int32(depth) {
				e.stats.HistoryPrunes++
				continue
			}
		}

		b.MakeMove(sm.move)
		score, err := e.searchMove(b, sm, alpha, beta, depth, ply, movesTried, pvNode, qsearch)
		b.UndoMove()
		if err != nil {
			return 0, err
		}
		movesTried++
		if sm.quiet {
			quietsTried++
			quiets = append(quiets, sm.move)
		}

		if score > bestScore {
			bestScore = score
			bestMove = sm.move
		}
		if score > alpha {
			alpha = score
			bound = Exact
			if root {
				e.rootBest = sm.move
			}
		}
		if alpha >= beta {
			bound = LowerBound
			e.stats.BetaCutoffs++
			if sm.quiet {
				e.rewardCutoff(b, side, quiets, depth, ply)
			}
			break
		}
	}

	e.tt.Store(hash, bestMove, bestScore, depth, bound, ply)
	return bestScore, nil
}

// searchMove searches the child after sm was made: a full window for the
// first move, otherwise a reduced null window, a full-depth null window and
// on PV nodes a full window, stopping as soon as the move fails low.
func (e *Engine) searchMove(b Board, sm scoredMove, alpha, beta int32, depth, ply, movesTried int, pvNode, qsearch bool) (int32, error) {
	if movesTried == 0 || qsearch {
		score, err := e.negamax(b, -beta, -alpha, depth-1, ply+1, true)
		return -score, err
	}

	if movesTried >= lmrMinMoves && depth >= lmrMinDepth && sm.quiet {
		r := 1 + movesTried/13 + depth/9
		if !pvNode {
			r++
		}
		score, err := e.negamax(b, -alpha-1, -alpha, depth-r, ply+1, true)
		if err != nil {
			return 0, err
		}
		if score = -score; score <= alpha {
			return score, nil
		}
		e.stats.LMRResearches++
	}

	score, err := e.negamax(b, -alpha-1, -alpha, depth-1, ply+1, true)
	if err != nil {
		return 0, err
	}
	if score = -score; score > alpha && score < beta {
		score, err = e.negamax(b, -beta, -alpha, depth-1, ply+1, true)
		return -score, err
	}
	return score, nil
}

// rewardCutoff credits the quiet cutoff move (last in quiets) and punishes
// the quiet moves tried before it.
func (e *Engine) rewardCutoff(b Board, side board.Color, quiets []board.Move, depth, ply int) {
	bonus := int32(depth * depth)
	last := len(quiets) - 1
	for i, m := range quiets {
		amount := -bonus
		if i == last {
			amount = bonus
		}
		e.history.Reward(side, b.MovedPiece(m), m.To(), amount)
	}
	e.killers.InsertKiller(quiets[last], ply)
}

// Elapsed reports the time since the current search started.
func (e *Engine) Elapsed() time.Duration {
	return e.clock.Elapsed()
}
