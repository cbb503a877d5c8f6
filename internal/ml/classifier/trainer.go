package classifier

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/iljakuklic/sfc-project/internal/ml/dataset"
	"github.com/iljakuklic/sfc-project/internal/ml/net"
	"github.com/rs/zerolog/log"
)

// Trainer trains a classifier on the training set,
// steering the learning rate by the error on the cross-validation set.
type Trainer struct {
	id         string
	classifier *Classifier
	trainer    *net.Trainer
	train      *dataset.DataSet
	test       *dataset.DataSet
	xval       *dataset.DataSet
	observer   Observer
	history    []float64
}

// NewTrainer prepares a training session for the network.
// The cross-validation set defaults to the training set and the test set to the cross-validation set.
// Labels missing for the trailing outputs are named after their index.
func NewTrainer(network *net.Network, labels []string, train, test, xval *dataset.DataSet) (*Trainer, error) {
	if train == nil || train.Len() == 0 {
		return nil, fmt.Errorf("no training samples: %w", EmptyDataSetErr)
	}
	if xval == nil || xval.Len() == 0 {
		xval = train
	}
	if test == nil || test.Len() == 0 {
		test = xval
	}

	outputs := train.OutputDim()
	if len(labels) > outputs {
		return nil, fmt.Errorf("%d labels for %d training outputs: %w", len(labels), outputs, net.ShapeMismatchErr)
	}
	names := make([]string, outputs)
	for i := range names {
		if i < len(labels) {
			names[i] = labels[i]
		} else {
			names[i] = fmt.Sprintf("output-%d", i)
		}
	}

	if in, err := network.Inputs(); err != nil {
		return nil, err
	} else if in != train.InputDim() {
		return nil, fmt.Errorf("network with %d inputs for %d features: %w", in, train.InputDim(), net.ShapeMismatchErr)
	}

	c, err := New(network, train.Mean(), train.StdDev(), names)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		id:         uuid.New().String(),
		classifier: c,
		trainer:    net.NewTrainer(network),
		train:      train,
		test:       test,
		xval:       xval,
		observer:   voidObserver{},
		history:    make([]float64, 0),
	}, nil
}

// WithObserver registers the observer notified after every iteration.
func (t *Trainer) WithObserver(observer Observer) *Trainer {
	t.observer = observer
	return t
}

// ID returns the session id.
func (t *Trainer) ID() string {
	return t.id
}

// Classifier returns the trained classifier.
func (t *Trainer) Classifier() *Classifier {
	return t.classifier
}

// History returns the cross-validation error after every iteration of the last Teach call.
func (t *Trainer) History() []float64 {
	return t.history
}

// PresentChunk presents up to n training samples starting at offset and updates the weights once.
// n == 0 presents the whole training set.
// The samples are presented as stored, so the training set is expected to be normalized.
func (t *Trainer) PresentChunk(n, offset int, rate float64) {
	end := t.train.Len()
	if n > 0 && offset+n < end {
		end = offset + n
	}
	for i := offset; i < end; i++ {
		s := t.train.Sample(i)
		t.trainer.Sample(s.Input, s.Output)
	}
	t.trainer.Teach(rate)
}

// Present passes the whole training set in consecutive chunks of n samples.
func (t *Trainer) Present(n int, rate float64) {
	if n == 0 {
		n = t.train.Len()
	}
	for offset := 0; offset < t.train.Len(); offset += n {
		t.PresentChunk(n, offset, rate)
	}
}

// Teach trains with chunks of n samples until the cross-validation error stops falling.
// It reports whether the final error is not worse than the initial one.
func (t *Trainer) Teach(n int, rate float64) bool {
	schedule := StartNewBob(rate, t.CrossValidationError())
	t.history = append(t.history[:0], schedule.Error())
	log.Info().
		Str("session", t.id).
		Float64("rate", rate).
		Float64("error", schedule.Error()).
		Msg("start training")

	for {
		if !schedule.Next() {
			log.Warn().
				Str("session", t.id).
				Int("iterations", schedule.Iterations()).
				Msg("iteration budget exhausted")
			return false
		}
		r := schedule.Rate()
		t.Present(n, r)
		e := t.CrossValidationError()
		done := schedule.Update(e)
		t.history = append(t.history, e)
		t.observer.Observe(Iteration{
			Session:   t.id,
			Iteration: schedule.Iterations(),
			Rate:      r,
			Error:     e,
			Misses:    schedule.Misses(),
		})
		log.Debug().
			Str("session", t.id).
			Int("iteration", schedule.Iterations()).
			Float64("rate", r).
			Float64("error", e).
			Int("misses", schedule.Misses()).
			Msg("iteration")
		if done {
			break
		}
	}

	log.Info().
		Str("session", t.id).
		Int("iterations", schedule.Iterations()).
		Float64("error", schedule.Error()).
		Bool("improved", schedule.Improved()).
		Msg("training finished")
	return schedule.Improved()
}

// TrainError returns the total error on the training set.
func (t *Trainer) TrainError() float64 {
	return t.classifier.ErrorSet(t.train)
}

// TestError returns the total error on the test set.
func (t *Trainer) TestError() float64 {
	return t.classifier.ErrorSet(t.test)
}

// CrossValidationError returns the total error on the cross-validation set.
func (t *Trainer) CrossValidationError() float64 {
	return t.classifier.ErrorSet(t.xval)
}
