package engine

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tinygoose/board"
)

const DefaultBenchDepth = 5

// benchHashEntries keeps bench tables small so a run does not depend on the
// configured Hash size.
const benchHashEntries = 1 << 16

var BenchPositions = []string{
	board.Startpos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
	"8/8/4k3/3p4/3P4/4K3/8/8 w - - 0 1",
	"2rq1rk1/pp1bppbp/2np1np1/8/3NP3/1BN1BP2/PPPQ2PP/2KR3R b - - 0 11",
}

type BenchConfig struct {
	Depth       int
	Workers     int
	HashEntries int
	Logger      zerolog.Logger
}

type BenchResult struct {
	RunID     string
	Positions int
	Nodes     uint64
	Elapsed   time.Duration
	NPS       uint64
}

// Bench searches every bench position to a fixed depth, each with its own
// freshly created Engine, so node totals do not depend on Workers.
func Bench(ctx context.Context, cfg BenchConfig) (BenchResult, error) {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultBenchDepth
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.HashEntries <= 0 {
		cfg.HashEntries = benchHashEntries
	}
	res := BenchResult{RunID: uuid.NewString(), Positions: len(BenchPositions)}
	log := cfg.Logger.With().Str("run", res.RunID).Logger()

	nodes := make([]uint64, len(BenchPositions))
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, fen := range BenchPositions {
		i, fen := i, fen
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos, err := board.LoadFEN(fen)
			if err != nil {
				return errors.Wrapf(err, "bench position %d", i)
			}
			opts := DefaultOptions()
			opts.HashEntries = cfg.HashEntries
			r := New(opts).Think(pos, Limits{Depth: cfg.Depth})
			nodes[i] = r.Nodes
			log.Debug().Int("position", i).Uint64("nodes", r.Nodes).Str("move", r.Move.String()).Msg("bench position done")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Elapsed = time.Since(start)
	res.Nodes = lo.Sum(nodes)
	res.NPS = res.Nodes * 1000 / uint64(Max(res.Elapsed.Milliseconds(), 1))
	return res, nil
}

func (r BenchResult) WriteReport(w io.Writer) error {
	_, err := message.NewPrinter(language.English).Fprintf(w,
		"positions %d nodes %d nps %d time %dms\n",
		r.Positions, r.Nodes, r.NPS, r.Elapsed.Milliseconds())
	return err
}
