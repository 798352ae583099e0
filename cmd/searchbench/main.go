package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"tinygoose/board"
	"tinygoose/engine"
)

type config struct {
	depth      int
	repeat     int
	fen        string
	hashMiB    int
	cpuProfile string
	memProfile string
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).Level(zerolog.InfoLevel).With().Timestamp().Logger()

	// --- Flags ---
	var cfg config
	flag.IntVar(&cfg.depth, "depth", 10, "search depth in plies")
	flag.IntVar(&cfg.repeat, "repeat", 1, "number of searches to run")
	flag.StringVar(&cfg.fen, "fen", "", "FEN to search (empty = startpos)")
	flag.IntVar(&cfg.hashMiB, "hash", 16, "transposition table size in MiB")
	flag.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	flag.StringVar(&cfg.memProfile, "memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if err := run(cfg, os.Stdout, log); err != nil {
		log.Fatal().Err(err).Msg("searchbench failed")
	}
}

func run(cfg config, w io.Writer, log zerolog.Logger) error {
	if cfg.depth <= 0 {
		return errors.Errorf("depth must be positive, got %d", cfg.depth)
	}
	fen := board.Startpos
	if cfg.fen != "" {
		fen = cfg.fen
	}
	if _, err := board.LoadFEN(fen); err != nil {
		return errors.Wrap(err, "bad fen")
	}

	// --- Optional CPU profiling setup ---
	if cfg.cpuProfile != "" {
		cpuFile, err := os.Create(cfg.cpuProfile)
		if err != nil {
			return errors.Wrap(err, "could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return errors.Wrap(err, "could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fmt.Fprintf(w, "searchbench: fen=%q depth=%d repeat=%d\n", fen, cfg.depth, cfg.repeat)

	opts := engine.DefaultOptions()
	opts.HashEntries = engine.EntriesForMiB(cfg.hashMiB)
	opts.Logger = log
	eng := engine.New(opts)

	var totalNodes uint64
	startAll := time.Now()
	for i := 0; i < cfg.repeat; i++ {
		// Fresh position and tables for each run
		pos, err := board.LoadFEN(fen)
		if err != nil {
			return errors.Wrap(err, "bad fen")
		}
		eng.NewGame()

		res := eng.Think(pos, engine.Limits{Depth: cfg.depth})
		totalNodes += res.Nodes

		fmt.Fprintf(w, "iteration %d: bestmove %v score %s nodes %s time=%v\n",
			i+1, res.Move.String(), engine.FormatScore(res.Score), humanize.Comma(int64(res.Nodes)), res.Elapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Fprintf(w, "total time: %v nodes: %s\n", totalElapsed, humanize.Comma(int64(totalNodes)))

	// --- Optional heap profile at the end ---
	if cfg.memProfile != "" {
		f, err := os.Create(cfg.memProfile)
		if err != nil {
			return errors.Wrap(err, "could not create memory profile")
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errors.Wrap(err, "could not write memory profile")
		}
	}
	return nil
}
