package classifier

// Iteration describes one pass of the adaptive training loop.
type Iteration struct {
	Session   string
	Iteration int
	Rate      float64
	Error     float64
	Misses    int
}

// Observer is notified after every training iteration.
type Observer interface {
	Observe(it Iteration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(it Iteration)

// Observe calls the function.
func (f ObserverFunc) Observe(it Iteration) {
	f(it)
}

type voidObserver struct{}

func (voidObserver) Observe(Iteration) {}
