package domain

import "fmt"

// Color is the side to move
type Color int

const (
	Black Color = iota // sente, moves first
	White              // gote
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "unknown"
	}
}

// Piece is the piece code as recorded by the loader (e.g. "FU", "KA")
type Piece string

// Square is a board coordinate. The zero Square means "from hand".
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// IsZero reports whether the square is unset
func (s Square) IsZero() bool {
	return s.File == 0 && s.Rank == 0
}

func (s Square) String() string {
	if s.IsZero() {
		return "00"
	}
	return fmt.Sprintf("%d%d", s.File, s.Rank)
}

// Move is a move record leading into a position
type Move struct {
	From    Square `json:"from"`
	To      Square `json:"to"`
	Piece   Piece  `json:"piece"`
	Color   Color  `json:"color"`
	Promote bool   `json:"promote,omitempty"`
}

// IsDrop reports whether the move places a piece from hand
func (m Move) IsDrop() bool {
	return m.From.IsZero()
}

func (m Move) String() string {
	side := "+"
	if m.Color == White {
		side = "-"
	}
	s := fmt.Sprintf("%s%s%s%s", side, m.From, m.To, m.Piece)
	if m.Promote {
		s += "*"
	}
	return s
}

// RecordMove is one move of an already-parsed record, with the
// alternative lines that branch off in its place
type RecordMove struct {
	Move       Move           `json:"move"`
	Comment    string         `json:"comment,omitempty"`
	Variations [][]RecordMove `json:"variations,omitempty"`
}

// ParsedRecord is a game record as handed over by a loader
type ParsedRecord struct {
	Moves []RecordMove `json:"moves"`
}
