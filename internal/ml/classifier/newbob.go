package classifier

import "math"

const (
	// MaxIterations bounds the number of passes over the training set.
	MaxIterations = 10000
	// Plateau is the error ratio above which an iteration counts as a miss.
	Plateau = 0.9999
	// FastImprovement is the error ratio below which the rate is doubled.
	FastImprovement = 0.98
	// MaxMisses is the number of consecutive misses that stops the training.
	MaxMisses = 3
)

// NewBob is the adaptive learning rate schedule.
// The rate doubles while the error falls fast, halves on every iteration
// that does not improve it, and training stops after MaxMisses such iterations in a row.
type NewBob struct {
	rate       float64
	initial    float64
	previous   float64
	misses     int
	iterations int
	budget     int
}

// StartNewBob starts the schedule from the given rate and the error of the untrained network.
func StartNewBob(rate, initialError float64) *NewBob {
	return &NewBob{
		rate:     rate,
		initial:  initialError,
		previous: initialError,
		budget:   MaxIterations,
	}
}

// Next consumes one iteration of the budget.
// It returns false once the budget is exhausted.
func (nb *NewBob) Next() bool {
	if nb.budget == 0 {
		return false
	}
	nb.budget--
	nb.iterations++
	return true
}

// Update adapts the rate to the error reached by the last iteration
// and reports whether the training should stop.
func (nb *NewBob) Update(current float64) bool {
	r := ratio(current, nb.previous)
	if r > Plateau {
		nb.misses++
	} else {
		nb.misses = 0
	}
	if nb.misses > 0 {
		nb.rate /= 2
	} else if r < FastImprovement {
		nb.rate *= 2
	}
	nb.previous = current
	return nb.misses >= MaxMisses
}

// Rate returns the current learning rate.
func (nb *NewBob) Rate() float64 {
	return nb.rate
}

// Misses returns the number of consecutive iterations without improvement.
func (nb *NewBob) Misses() int {
	return nb.misses
}

// Iterations returns the number of started iterations.
func (nb *NewBob) Iterations() int {
	return nb.iterations
}

// Error returns the error of the last iteration.
func (nb *NewBob) Error() float64 {
	return nb.previous
}

// Improved reports whether the last error does not exceed the initial one.
func (nb *NewBob) Improved() bool {
	return nb.previous <= nb.initial
}

func ratio(current, previous float64) float64 {
	if previous == 0 {
		// NOTE : a perfect fit can not improve any further
		if current == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return current / previous
}
