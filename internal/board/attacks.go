package board

// offset is a (rank, file) displacement.
type offset struct{ dr, df int }

var (
	knightOffsets = [8]offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = [8]offset{
		{-1, -1}, {-1, 0}, {-1, 1}, {0, -1},
		{0, 1}, {1, -1}, {1, 0}, {1, 1},
	}
	rookDirections   = [4]offset{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}
	bishopDirections = [4]offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
)

// IsAttacked reports whether sq is attacked by any piece of color by.
// An invalid square is never attacked.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}
	r, f := sq.Rank(), sq.File()

	// Pawns attack diagonally forward, so look one step backward from sq.
	pr := r - PawnDirection(by)
	for _, df := range [2]int{-1, 1} {
		if pc, ok := p.PieceAt(pr, f+df); ok && pc == NewPiece(Pawn, by) {
			return true
		}
	}

	for _, o := range knightOffsets {
		if pc, ok := p.PieceAt(r+o.dr, f+o.df); ok && pc == NewPiece(Knight, by) {
			return true
		}
	}

	for _, o := range kingOffsets {
		if pc, ok := p.PieceAt(r+o.dr, f+o.df); ok && pc == NewPiece(King, by) {
			return true
		}
	}

	if p.sliderAttacks(r, f, rookDirections[:], NewPiece(Rook, by), NewPiece(Queen, by)) {
		return true
	}
	return p.sliderAttacks(r, f, bishopDirections[:], NewPiece(Bishop, by), NewPiece(Queen, by))
}

// sliderAttacks walks each ray from (r, f) and reports whether the first
// piece met is one of the given attackers.
func (p *Position) sliderAttacks(r, f int, dirs []offset, a, b Piece) bool {
	for _, d := range dirs {
		rr, ff := r+d.dr, f+d.df
		for OnBoard(rr, ff) {
			if pc := p.Squares[rr][ff]; pc != NoPiece {
				if pc == a || pc == b {
					return true
				}
				break
			}
			rr += d.dr
			ff += d.df
		}
	}
	return false
}
