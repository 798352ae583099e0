// Package uci runs the text protocol between a GUI and the engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"tinygoose/board"
	"tinygoose/engine"
	"tinygoose/weights"
)

const (
	EngineName   = "TinyGoose"
	EngineAuthor = "Goose"

	DefaultHashMiB = 16
	maxHashMiB     = 1024
)

// Protocol owns the current game position and the engine it drives.
type Protocol struct {
	eng  *engine.Engine
	pos  *board.Position
	in   io.Reader
	out  io.Writer
	base zerolog.Logger
	log  zerolog.Logger

	gameID string
	debug  bool
}

func New(eng *engine.Engine, in io.Reader, out io.Writer, log zerolog.Logger) *Protocol {
	p := &Protocol{
		eng:  eng,
		pos:  board.NewPosition(),
		in:   in,
		out:  out,
		base: log,
		log:  log,
	}
	eng.SetOnIteration(p.printInfo)
	return p
}

// Run reads commands until quit or end of input.
func (p *Protocol) Run() error {
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		p.log.Debug().Str("cmd", line).Msg("received")

		switch strings.ToLower(tokens[0]) {
		case "uci":
			p.println("id name", EngineName)
			p.println("id author", EngineAuthor)
			p.printf("option name Hash type spin default %d min 1 max %d\n", DefaultHashMiB, maxHashMiB)
			p.println("option name MateGuard type check default true")
			p.println("option name Aspiration type check default true")
			p.println("option name WeightsFile type string default <empty>")
			p.println("uciok")
		case "isready":
			p.println("readyok")
		case "ucinewgame":
			p.newGame()
		case "position":
			p.position(tokens[1:])
		case "go":
			p.goCommand(tokens[1:])
		case "setoption":
			p.setOption(tokens[1:])
		case "eval":
			p.printf("info string eval %s phase %d\n", engine.FormatScore(p.eng.Evaluate(p.pos)), engine.GamePhase(p.pos))
		case "debug":
			if len(tokens) < 2 {
				p.println("info string Malformed debug command")
				continue
			}
			p.debug = strings.ToLower(tokens[1]) == "on"
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return nil
		default:
			p.println("info string Unknown command:", line)
		}
	}
	return errors.Wrap(scanner.Err(), "read commands")
}

func (p *Protocol) newGame() {
	p.eng.NewGame()
	p.pos = board.NewPosition()
	p.gameID = uuid.NewString()
	p.log = p.base.With().Str("game", p.gameID).Logger()
	p.eng.SetLogger(p.log)
	p.log.Info().Msg("new game")
}

// position handles "startpos|fen <fen> [moves ...]". An unparsable position
// leaves the current one in place; an illegal move keeps the moves before it.
func (p *Protocol) position(args []string) {
	if p.eng.ApplyPendingTable() {
		p.println("info string Weights reloaded")
	}
	if len(args) == 0 {
		p.println("info string Malformed position command")
		return
	}

	var fen string
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		fen = board.Startpos
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		fen, rest = strings.Join(rest[:i], " "), rest[i:]
		if fen == "" {
			p.println("info string Invalid fen position")
			return
		}
	default:
		p.println("info string Invalid position subcommand")
		return
	}

	pos, err := board.LoadFEN(fen)
	if err != nil {
		p.println("info string", err)
		return
	}
	p.pos = pos

	if len(rest) == 0 {
		return
	}
	if strings.ToLower(rest[0]) != "moves" {
		p.println("info string Expected moves, got", rest[0])
		return
	}
	for _, s := range rest[1:] {
		m, err := p.pos.ParseMove(s)
		if err != nil {
			p.println("info string", err)
			p.log.Warn().Err(err).Msg("position moves truncated")
			return
		}
		p.pos.MakeMove(m)
	}
}

func (p *Protocol) goCommand(args []string) {
	var limits engine.Limits
	fields := map[string]*int{
		"wtime":     &limits.WhiteTime,
		"btime":     &limits.BlackTime,
		"winc":      &limits.WhiteInc,
		"binc":      &limits.BlackInc,
		"movetime":  &limits.MoveTime,
		"depth":     &limits.Depth,
		"nodes":     &limits.Nodes,
		"movestogo": new(int),
	}
	for i := 0; i < len(args); i++ {
		name := strings.ToLower(args[i])
		if name == "infinite" {
			continue
		}
		dst, ok := fields[name]
		if !ok {
			p.println("info string Unknown go subcommand", name)
			continue
		}
		if i+1 >= len(args) {
			p.println("info string Malformed go command option", name)
			continue
		}
		i++
		v, err := strconv.Atoi(args[i])
		if err != nil {
			p.println("info string Malformed go command option; could not convert", name)
			continue
		}
		*dst = v
	}

	res := p.eng.Think(p.pos, limits)
	p.log.Info().
		Str("move", moveString(res.Move)).
		Str("score", engine.FormatScore(res.Score)).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed).
		Msg("search done")
	if p.debug {
		stats := p.eng.Stats()
		stats.Dump(p.out)
	}
	p.println("bestmove", moveString(res.Move))
}

func (p *Protocol) setOption(args []string) {
	name, value, err := parseSetOption(args)
	if err != nil {
		p.println("info string", err)
		return
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 || mb > maxHashMiB {
			p.println("info string Invalid Hash value", value)
			return
		}
		p.eng.SetHashEntries(engine.EntriesForMiB(mb))
	case "mateguard":
		on, err := strconv.ParseBool(value)
		if err != nil {
			p.println("info string Invalid MateGuard value", value)
			return
		}
		p.eng.SetMateGuard(on)
	case "aspiration":
		on, err := strconv.ParseBool(value)
		if err != nil {
			p.println("info string Invalid Aspiration value", value)
			return
		}
		p.eng.SetAspiration(on)
	case "weightsfile":
		t, err := weights.LoadFile(value)
		if err != nil {
			p.println("info string", err)
			p.log.Error().Err(err).Str("path", value).Msg("weights reload failed")
			return
		}
		p.eng.QueueTable(t)
	default:
		p.println("info string Unknown option", name)
	}
}

// parseSetOption splits "name <id...> [value <v...>]"; both parts may
// contain spaces.
func parseSetOption(args []string) (string, string, error) {
	if len(args) < 2 || strings.ToLower(args[0]) != "name" {
		return "", "", errors.New("malformed setoption command")
	}
	i := 1
	for i < len(args) && strings.ToLower(args[i]) != "value" {
		i++
	}
	name := strings.Join(args[1:i], " ")
	var value string
	if i < len(args) {
		value = strings.Join(args[i+1:], " ")
	}
	if name == "" {
		return "", "", errors.New("setoption without option name")
	}
	return name, value, nil
}

func (p *Protocol) printInfo(r engine.Report) {
	p.printf("info depth %d score %s nodes %d nps %d time %d hashfull %d pv %s\n",
		r.Depth, engine.FormatScore(r.Score), r.Nodes, r.NPS, r.Elapsed.Milliseconds(), r.Hashfull, engine.MovesString(r.PV))
}

func moveString(m board.Move) string {
	if m == board.NullMove {
		return "0000"
	}
	return m.String()
}

func (p *Protocol) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Protocol) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}
