package montecarlo

import (
	"fmt"

	"github.com/domino14/spheres/bag"
)

// Pair classifies a two-ball sample.
type Pair int

const (
	PairBlack Pair = iota
	PairWhite
	PairMixed
)

func (p Pair) String() string {
	switch p {
	case PairBlack:
		return "black-black"
	case PairWhite:
		return "white-white"
	case PairMixed:
		return "mixed"
	}
	return fmt.Sprintf("Pair(%d)", int(p))
}

// ClassifyPair returns the kind of pair. Order does not matter.
func ClassifyPair(a, b bag.Ball) Pair {
	switch {
	case a == bag.Black && b == bag.Black:
		return PairBlack
	case a == bag.White && b == bag.White:
		return PairWhite
	default:
		return PairMixed
	}
}

// Reduce applies the reduction rule to a two-ball sample that has already
// been drawn from b:
//
//	black-black: both go back in the bag
//	white-white: both are discarded
//	mixed:       the white goes back, the black is discarded
func Reduce(b *bag.Bag, sample []bag.Ball) error {
	if len(sample) != bag.MaxSample {
		return fmt.Errorf("cannot reduce a sample of %d balls", len(sample))
	}
	switch ClassifyPair(sample[0], sample[1]) {
	case PairBlack:
		b.ReturnBalls(sample)
	case PairWhite:
		// discarded
	case PairMixed:
		b.ReturnBall(bag.White)
	}
	return nil
}
