// Package bag models a bag of black and white balls that can be drawn
// from at random and refilled.
package bag

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
)

// MaxSample is the most balls a single draw removes.
const MaxSample = 2

var ErrEmptyBag = errors.New("cannot draw from an empty bag")

// A Bag is an unordered multiset of balls. Only the count of each color is
// stored; two balls of the same color are interchangeable.
type Bag struct {
	counts   [NumColors]int
	numBalls int

	randSource *rand.Rand
}

// NewBag creates a bag with the given number of black and white balls.
// Negative counts are a programming error.
func NewBag(nBlack, nWhite int, randSource *rand.Rand) *Bag {
	if nBlack < 0 || nWhite < 0 {
		log.Fatal().Int("black", nBlack).Int("white", nWhite).Msg("negative ball count")
	}
	b := &Bag{randSource: randSource}
	b.counts[Black] = nBlack
	b.counts[White] = nWhite
	b.numBalls = nBlack + nWhite
	return b
}

// drawBallAt removes the ball "at" the given index. We count up through the
// colors in order until we pass idx.
func (b *Bag) drawBallAt(idx int) (Ball, error) {
	if idx < 0 || idx >= b.numBalls {
		return 0, errors.New("ball index out of range")
	}
	counter := 0
	for _, c := range Colors {
		counter += b.counts[c]
		if counter > idx {
			b.counts[c]--
			b.numBalls--
			return c, nil
		}
	}
	// counts and numBalls disagree.
	return 0, fmt.Errorf("bag is inconsistent: %d balls, counts %v", b.numBalls, b.counts)
}

// Draw removes and returns two balls chosen uniformly at random without
// replacement, or a single ball if only one is left.
func (b *Bag) Draw() ([]Ball, error) {
	if b.numBalls == 0 {
		return nil, ErrEmptyBag
	}
	n := min(MaxSample, b.numBalls)
	drawn := make([]Ball, n)
	var err error
	for i := 0; i < n; i++ {
		drawn[i], err = b.drawBallAt(b.randSource.IntN(b.numBalls))
		if err != nil {
			return nil, err
		}
	}
	return drawn, nil
}

// ReturnBall puts a single ball back in the bag.
func (b *Bag) ReturnBall(ball Ball) {
	if !ball.Valid() {
		log.Fatal().Uint8("ball", uint8(ball)).Msg("unknown ball color")
	}
	b.counts[ball]++
	b.numBalls++
}

// ReturnBalls puts the balls back in the bag.
func (b *Bag) ReturnBalls(balls []Ball) {
	for _, ball := range balls {
		b.ReturnBall(ball)
	}
}

func (b *Bag) Size() int {
	return b.numBalls
}

// Count returns how many balls of the given color are in the bag.
func (b *Bag) Count(ball Ball) int {
	if !ball.Valid() {
		return 0
	}
	return b.counts[ball]
}

// Peek returns the contents of the bag, blacks first.
func (b *Bag) Peek() []Ball {
	ret := make([]Ball, 0, b.numBalls)
	for _, c := range Colors {
		for i := 0; i < b.counts[c]; i++ {
			ret = append(ret, c)
		}
	}
	return ret
}

// Copy copies to a new bag and returns it. If randSource is nil, the copy
// shares the original's rand source.
func (b *Bag) Copy(randSource *rand.Rand) *Bag {
	if randSource == nil {
		randSource = b.randSource
	}
	return &Bag{
		counts:     b.counts,
		numBalls:   b.numBalls,
		randSource: randSource,
	}
}

func (b *Bag) String() string {
	return fmt.Sprintf("<Bag: %d black, %d white>", b.counts[Black], b.counts[White])
}
