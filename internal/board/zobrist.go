package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][NumSquares]uint64 // [Color][PieceType][Square]
	zobristSideToMove uint64                   // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < NumSquares; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	zobristSideToMove = rng.next()
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64
	for sq := Square(0); sq < NumSquares; sq++ {
		pc := p.At(sq)
		if pc == NoPiece {
			continue
		}
		hash ^= zobristPiece[pc.Color()][pc.Type()][sq]
	}
	if p.Turn == Black {
		hash ^= zobristSideToMove
	}
	return hash
}
