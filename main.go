package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"tinygoose/engine"
	"tinygoose/uci"
	"tinygoose/weights"
)

const (
	exitOK = iota
	exitErr
)

var (
	logLevel    = flag.String("loglevel", "warn", "log level written to stderr (debug, info, warn, error)")
	hashMiB     = flag.Int("hash", uci.DefaultHashMiB, "transposition table size in MiB")
	weightsPath = flag.String("weights", "", "JSON weights file to load at startup")
	benchJobs   = flag.Int("bench.workers", 1, "engines run side by side in bench mode")
)

func main() {
	flag.Parse()

	log, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitErr)
	}

	if err := realMain(flag.Args(), log); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(exitErr)
	}
	os.Exit(exitOK)
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "bad -loglevel %q", level)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func realMain(args []string, log zerolog.Logger) error {
	if len(args) > 0 && args[0] == "bench" {
		depth := engine.DefaultBenchDepth
		if len(args) > 1 {
			d, err := strconv.Atoi(args[1])
			if err != nil || d <= 0 {
				return errors.Errorf("bad bench depth %q", args[1])
			}
			depth = d
		}
		return runBench(depth, log)
	}

	opts := engine.DefaultOptions()
	opts.HashEntries = engine.EntriesForMiB(*hashMiB)
	opts.Logger = log
	eng := engine.New(opts)
	if *weightsPath != "" {
		t, err := weights.LoadFile(*weightsPath)
		if err != nil {
			return err
		}
		eng.SetTable(t)
	}
	return uci.New(eng, os.Stdin, os.Stdout, log).Run()
}

func runBench(depth int, log zerolog.Logger) error {
	res, err := engine.Bench(context.Background(), engine.BenchConfig{
		Depth:   depth,
		Workers: *benchJobs,
		Logger:  log,
	})
	if err != nil {
		return errors.Wrap(err, "bench")
	}
	color.New(color.FgCyan, color.Bold).Printf("bench depth %d run %s\n", depth, res.RunID)
	if err := res.WriteReport(os.Stdout); err != nil {
		return err
	}
	color.Green("%d nodes %d nps", res.Nodes, res.NPS)
	return nil
}
