package sessionstore

import (
	"fmt"
	"math/rand/v2"
)

// Default lottery odds: 2 requests in 100 run the garbage collector.
const (
	DefaultChances = 2
	DefaultOutOf   = 100
)

// Lottery decides per request whether garbage collection should run.
// It holds only the odds; every draw is independent.
type Lottery struct {
	chances int
	outOf   int
}

// NewLottery returns a lottery that wins chances times out of outOf.
// Panics on impossible odds to fail fast on misconfiguration.
func NewLottery(chances, outOf int) Lottery {
	if outOf <= 0 || chances < 0 || chances > outOf {
		panic(fmt.Sprintf("sessionstore: invalid lottery odds %d/%d", chances, outOf))
	}
	return Lottery{chances: chances, outOf: outOf}
}

// DefaultLottery returns the 2-in-100 lottery.
func DefaultLottery() Lottery {
	return NewLottery(DefaultChances, DefaultOutOf)
}

// Draw reports whether this request won the lottery.
func (l Lottery) Draw() bool {
	if l.outOf <= 0 || l.chances == 0 {
		return false
	}
	return rand.IntN(l.outOf) < l.chances
}

// Odds returns the configured chances and range.
func (l Lottery) Odds() (chances, outOf int) {
	return l.chances, l.outOf
}
