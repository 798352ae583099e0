// Package board adapts dragontoothmg's move generator to the game state the
// search runs on: make/undo with a history stack, null moves, draw detection
// and coordinate move parsing.
package board

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/errors"
)

const Startpos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

type Move = dragontoothmg.Move
type Piece = dragontoothmg.Piece

const (
	NoPiece Piece = 0
	Pawn          = dragontoothmg.Pawn
	Knight        = dragontoothmg.Knight
	Bishop        = dragontoothmg.Bishop
	Rook          = dragontoothmg.Rook
	Queen         = dragontoothmg.Queen
	King          = dragontoothmg.King
)

// NullMove is the zero move, printed as 0000 over UCI.
const NullMove Move = 0

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

var (
	ErrInvalidFEN  = errors.New("invalid FEN")
	ErrIllegalMove = errors.New("illegal move")
)

// Position is a mutable game state. Moves are made and unmade in strict
// stack order.
type Position struct {
	board  dragontoothmg.Board
	undo   []func()
	saved  []dragontoothmg.Board
	states stateStack
}

func NewPosition() *Position {
	p, err := LoadFEN(Startpos)
	if err != nil {
		panic(err)
	}
	return p
}

func LoadFEN(fen string) (*Position, error) {
	p := &Position{}
	if err := p.LoadPosition(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadPosition replaces the game state, dropping all history.
func (p *Position) LoadPosition(fen string) (err error) {
	fields, rule50, err := validateFEN(fen)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrInvalidFEN, "%q: %v", fen, r)
		}
	}()
	b := dragontoothmg.ParseFen(strings.Join(fields, " "))
	p.board = b
	p.undo = p.undo[:0]
	p.saved = p.saved[:0]
	p.states.reset(p.board.Hash(), rule50)
	return nil
}

func validateFEN(fen string) ([]string, int, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: expected 4 to 6 fields", fen)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: expected 8 ranks", fen)
	}
	kings := map[rune]int{}
	for _, rank := range ranks {
		width := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				width += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				width++
				if c == 'k' || c == 'K' {
					kings[c]++
				}
			default:
				return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: bad piece %q", fen, c)
			}
		}
		if width != 8 {
			return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: rank %q is not 8 squares wide", fen, rank)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: each side needs exactly one king", fen)
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: side to move %q", fen, fields[1])
	}
	if fields[2] != "-" && strings.Trim(fields[2], "KQkq") != "" {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: castling rights %q", fen, fields[2])
	}
	if ep := fields[3]; ep != "-" && (len(ep) != 2 || ep[0] < 'a' || ep[0] > 'h' || (ep[1] != '3' && ep[1] != '6')) {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: en passant square %q", fen, ep)
	}
	for len(fields) < 6 {
		if len(fields) == 4 {
			fields = append(fields, "0")
		} else {
			fields = append(fields, "1")
		}
	}
	rule50, err := strconv.Atoi(fields[4])
	if err != nil || rule50 < 0 {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: halfmove clock %q", fen, fields[4])
	}
	if n, err := strconv.Atoi(fields[5]); err != nil || n < 1 {
		return nil, 0, errors.Wrapf(ErrInvalidFEN, "%q: fullmove number %q", fen, fields[5])
	}
	return fields, rule50, nil
}

func (p *Position) MakeMove(m Move) {
	rule50 := p.states.top().Rule50 + 1
	if p.MovedPiece(m) == Pawn || p.CapturedPiece(m) != NoPiece {
		rule50 = 0
	}
	p.undo = append(p.undo, p.board.Apply(m))
	p.states.push(State{Hash: p.board.Hash(), Rule50: rule50})
}

// UndoMove takes back the most recent MakeMove.
func (p *Position) UndoMove() {
	n := len(p.undo) - 1
	p.undo[n]()
	p.undo = p.undo[:n]
	p.states.pop()
}

// SkipTurn passes the move to the opponent. The en passant square is
// cleared, castling rights are kept.
// dragontoothmg has no null-move API, so the side to move is flipped through FEN.
func (p *Position) SkipTurn() {
	p.saved = append(p.saved, p.board)
	fields := strings.Fields(p.board.ToFen())
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	p.board = dragontoothmg.ParseFen(strings.Join(fields, " "))
	p.states.push(State{Hash: p.board.Hash(), Rule50: p.states.top().Rule50 + 1, Null: true})
}

func (p *Position) UndoSkipTurn() {
	n := len(p.saved) - 1
	p.board = p.saved[n]
	p.saved = p.saved[:n]
	p.states.pop()
}

// LegalMoves returns every legal move, or only captures and promotions.
func (p *Position) LegalMoves(capturesOnly bool) []Move {
	moves := p.board.GenerateLegalMoves()
	if !capturesOnly {
		return moves
	}
	tactical := moves[:0]
	for _, m := range moves {
		if m.Promote() != NoPiece || p.CapturedPiece(m) != NoPiece {
			tactical = append(tactical, m)
		}
	}
	return tactical
}

func (p *Position) InCheck() bool {
	return p.board.OurKingInCheck()
}

func (p *Position) IsCheckmate() bool {
	return p.InCheck() && len(p.board.GenerateLegalMoves()) == 0
}

func (p *Position) IsStalemate() bool {
	return !p.InCheck() && len(p.board.GenerateLegalMoves()) == 0
}

// IsRepeatedOrDrawn reports a repetition since the last irreversible move,
// the fifty-move rule or insufficient mating material. A mate delivered on
// the hundredth ply is not a fifty-move draw.
func (p *Position) IsRepeatedOrDrawn() bool {
	if p.insufficientMaterial() || p.states.repeated() {
		return true
	}
	return p.states.fiftyMoveDraw() && !p.IsCheckmate()
}

func (p *Position) insufficientMaterial() bool {
	w, b := &p.board.White, &p.board.Black
	if w.Pawns|b.Pawns|w.Rooks|b.Rooks|w.Queens|b.Queens != 0 {
		return false
	}
	return bits.OnesCount64(w.Knights|w.Bishops|b.Knights|b.Bishops) <= 1
}

func (p *Position) Hash() uint64 {
	return p.board.Hash()
}

func (p *Position) SideToMove() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

// Pieces returns the bitboards of one side.
func (p *Position) Pieces(c Color) *dragontoothmg.Bitboards {
	if c == White {
		return &p.board.White
	}
	return &p.board.Black
}

// PieceOn returns the piece kind on sq in one side's bitboards.
func PieceOn(bb *dragontoothmg.Bitboards, sq uint8) (Piece, bool) {
	mask := uint64(1) << sq
	switch {
	case bb.Pawns&mask != 0:
		return Pawn, true
	case bb.Knights&mask != 0:
		return Knight, true
	case bb.Bishops&mask != 0:
		return Bishop, true
	case bb.Rooks&mask != 0:
		return Rook, true
	case bb.Queens&mask != 0:
		return Queen, true
	case bb.Kings&mask != 0:
		return King, true
	}
	return NoPiece, false
}

func (p *Position) MovedPiece(m Move) Piece {
	piece, _ := PieceOn(p.Pieces(p.SideToMove()), m.From())
	return piece
}

// CapturedPiece returns the kind taken by m, a pawn for en passant, or
// NoPiece for quiet moves.
func (p *Position) CapturedPiece(m Move) Piece {
	if piece, ok := PieceOn(p.Pieces(p.SideToMove().Other()), m.To()); ok {
		return piece
	}
	if p.MovedPiece(m) == Pawn && (m.From()^m.To())&7 != 0 {
		return Pawn
	}
	return NoPiece
}

// ParseMove finds the legal move written in coordinate notation.
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.ToLower(s)
	for _, m := range p.board.GenerateLegalMoves() {
		if m.String() == s {
			return m, nil
		}
	}
	return NullMove, errors.Wrapf(ErrIllegalMove, "%q in %s", s, p.FEN())
}

func (p *Position) FEN() string {
	return p.board.ToFen()
}

// Ply returns the number of moves made since the position was loaded.
func (p *Position) Ply() int {
	return len(p.states) - 1
}

// Mirror returns the colour-flipped position: ranks reversed, piece colours
// swapped and the other side to move.
func (p *Position) Mirror() (*Position, error) {
	fen, err := MirrorFEN(p.FEN())
	if err != nil {
		return nil, err
	}
	return LoadFEN(fen)
}

func MirrorFEN(fen string) (string, error) {
	fields, _, err := validateFEN(fen)
	if err != nil {
		return "", err
	}
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	if fields[2] != "-" {
		// Keep the KQkq ordering.
		swapped := swapCase(fields[2])
		var sb strings.Builder
		for _, c := range "KQkq" {
			if strings.ContainsRune(swapped, c) {
				sb.WriteRune(c)
			}
		}
		fields[2] = sb.String()
	}
	if ep := fields[3]; ep != "-" {
		rank := byte('3')
		if ep[1] == '3' {
			rank = '6'
		}
		fields[3] = string([]byte{ep[0], rank})
	}
	return strings.Join(fields, " "), nil
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		}
		return r
	}, s)
}
